package normalisers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/logger"
	"github.com/custodia-labs/vibe/internal/normalisers/docx"
	"github.com/custodia-labs/vibe/internal/normalisers/html"
	"github.com/custodia-labs/vibe/internal/normalisers/markdown"
	"github.com/custodia-labs/vibe/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches files to normalisers by MIME type.
type Registry struct {
	mu     sync.RWMutex
	byType map[string][]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]driven.Normaliser)}
}

// Default returns a registry with the built-in normalisers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	return r
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range n.SupportedMIMETypes() {
		list := append(r.byType[t], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byType[t] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Normalise runs the normalisers for raw's MIME type in priority order
// until one accepts the payload.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	r.mu.RLock()
	candidates := r.byType[BaseMIMEType(raw.MIMEType)]
	r.mu.RUnlock()

	for _, n := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := n.Normalise(ctx, raw)
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			logger.Debug("Normaliser declined %s: %v", raw.Name, err)
			continue
		}
		return result, err
	}
	return nil, fmt.Errorf("%s (%s): %w", raw.Name, raw.MIMEType, domain.ErrUnsupportedFormat)
}
