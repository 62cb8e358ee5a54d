package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

type tagArgs struct {
	Target
	Tag string `validate:"required"`
}

// AddTag adds a tag to a document.
type AddTag struct {
	deps Deps
	args tagArgs

	wasPresent bool
	updatedAt  time.Time
}

// NewAddTag creates an AddTag command.
func NewAddTag(deps Deps, target Target, tag string) (*AddTag, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	args := tagArgs{target, tag}
	if err := validateInput(args); err != nil {
		return nil, err
	}
	return &AddTag{deps: deps, args: args}, nil
}

// Name returns the command name.
func (c *AddTag) Name() string { return NameAddTag }

// Execute adds the tag, noting whether it was already present.
func (c *AddTag) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.args.Target)
	if err != nil {
		return err
	}
	c.wasPresent = doc.HasTag(c.args.Tag)
	c.updatedAt = doc.UpdatedAt
	c.deps.Documents.AddTagToDocument(doc, c.args.Tag)
	return nil
}

// Undo removes the tag unless it was present before Execute.
func (c *AddTag) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.args.Target)
	if err != nil {
		return err
	}
	if !c.wasPresent {
		c.deps.Documents.RemoveTagFromDocument(doc, c.args.Tag)
	}
	doc.UpdatedAt = c.updatedAt
	return nil
}

// RemoveTag removes a tag from a document.
// Removing a tag the document does not carry fails.
type RemoveTag struct {
	deps Deps
	args tagArgs

	wasPresent bool
	updatedAt  time.Time
}

// NewRemoveTag creates a RemoveTag command.
func NewRemoveTag(deps Deps, target Target, tag string) (*RemoveTag, error) {
	if err := deps.require(true, false); err != nil {
		return nil, err
	}
	args := tagArgs{target, tag}
	if err := validateInput(args); err != nil {
		return nil, err
	}
	return &RemoveTag{deps: deps, args: args}, nil
}

// Name returns the command name.
func (c *RemoveTag) Name() string { return NameRemoveTag }

// Execute removes the tag.
func (c *RemoveTag) Execute(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.args.Target)
	if err != nil {
		return err
	}
	c.updatedAt = doc.UpdatedAt
	c.wasPresent = c.deps.Documents.RemoveTagFromDocument(doc, c.args.Tag)
	if !c.wasPresent {
		return fmt.Errorf("tag %q: %w", c.args.Tag, domain.ErrNotFound)
	}
	return nil
}

// Undo re-adds the tag if Execute removed it.
func (c *RemoveTag) Undo(ctx context.Context) error {
	_, doc, err := c.deps.document(ctx, c.args.Target)
	if err != nil {
		return err
	}
	if c.wasPresent {
		c.deps.Documents.AddTagToDocument(doc, c.args.Tag)
	}
	doc.UpdatedAt = c.updatedAt
	return nil
}
