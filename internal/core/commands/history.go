package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/vibe/internal/logger"
	"github.com/custodia-labs/vibe/internal/metrics"
)

// History errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is a linear undo/redo stack.
// Entries up to and including position have been executed; entries after
// it have been undone and can be redone until a new command is executed.
type History struct {
	entries  []Command
	position int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{position: -1}
}

// Execute runs cmd and, on success, records it after the cursor,
// discarding any undone commands. A failed command is not recorded.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := cmd.Execute(ctx)
	metrics.ObserveCommand(cmd.Name(), metrics.OpExecute, err)
	if err != nil {
		logger.Debug("Execute %s failed: %v", cmd.Name(), err)
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	if tail := h.entries[h.position+1:]; len(tail) > 0 {
		logger.Debug("Discarding %d undone command(s)", len(tail))
		clear(tail)
	}
	h.entries = append(h.entries[:h.position+1], cmd)
	h.position++
	logger.Debug("Executed %s (position %d)", cmd.Name(), h.position)
	return nil
}

// Undo reverts the command at the cursor and moves the cursor back.
// The cursor does not move if the undo fails.
func (h *History) Undo(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.CanUndo() {
		return ErrNothingToUndo
	}
	cmd := h.entries[h.position]
	err := cmd.Undo(ctx)
	metrics.ObserveCommand(cmd.Name(), metrics.OpUndo, err)
	if err != nil {
		logger.Debug("Undo %s failed: %v", cmd.Name(), err)
		return fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	h.position--
	logger.Debug("Undid %s (position %d)", cmd.Name(), h.position)
	return nil
}

// Redo executes the command after the cursor again and advances the cursor.
// The cursor does not move if execution fails.
func (h *History) Redo(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.CanRedo() {
		return ErrNothingToRedo
	}
	cmd := h.entries[h.position+1]
	err := cmd.Execute(ctx)
	metrics.ObserveCommand(cmd.Name(), metrics.OpRedo, err)
	if err != nil {
		logger.Debug("Redo %s failed: %v", cmd.Name(), err)
		return fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	h.position++
	logger.Debug("Redid %s (position %d)", cmd.Name(), h.position)
	return nil
}

// Release empties the history. Executed commands that implement Releaser
// free what they kept for undo, most recent first. Every command is
// released even if some fail; the errors are joined.
func (h *History) Release(ctx context.Context) error {
	var errs []error
	for i := h.position; i >= 0; i-- {
		cmd := h.entries[i]
		r, ok := cmd.(Releaser)
		if !ok {
			continue
		}
		if err := r.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", cmd.Name(), err))
		}
	}
	clear(h.entries)
	h.entries = nil
	h.position = -1
	return errors.Join(errs...)
}

// CanUndo reports whether there is a command to undo.
func (h *History) CanUndo() bool {
	return h.position >= 0
}

// CanRedo reports whether there is an undone command to redo.
func (h *History) CanRedo() bool {
	return h.position < len(h.entries)-1
}

// Position returns the index of the last executed command, -1 if none.
func (h *History) Position() int {
	return h.position
}

// Len returns the number of recorded commands, including undone ones.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the names of the recorded commands in order.
func (h *History) Entries() []string {
	names := make([]string, len(h.entries))
	for i, cmd := range h.entries {
		names[i] = cmd.Name()
	}
	return names
}
