package domain

import "strings"

// MessageRole identifies the sender of a dialogue message.
type MessageRole string

// Available message roles.
const (
	RoleSystem    MessageRole = "SYSTEM"
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
)

// IsValid returns true if the role is recognised.
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the role name.
func (r MessageRole) String() string {
	return string(r)
}

// AnnotationType classifies an annotation.
type AnnotationType string

// Available annotation types.
const (
	AnnotationComment   AnnotationType = "COMMENT"
	AnnotationHighlight AnnotationType = "HIGHLIGHT"
	AnnotationCitation  AnnotationType = "CITATION"
	AnnotationReference AnnotationType = "REFERENCE"
	AnnotationNote      AnnotationType = "NOTE"
)

// AnnotationTypes lists every annotation type in declaration order.
func AnnotationTypes() []AnnotationType {
	return []AnnotationType{
		AnnotationComment,
		AnnotationHighlight,
		AnnotationCitation,
		AnnotationReference,
		AnnotationNote,
	}
}

// IsValid returns true if the annotation type is recognised.
func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationComment, AnnotationHighlight, AnnotationCitation, AnnotationReference, AnnotationNote:
		return true
	default:
		return false
	}
}

// String returns the type name.
func (t AnnotationType) String() string {
	return string(t)
}

// ParseAnnotationType converts a case-insensitive name into an AnnotationType.
func ParseAnnotationType(s string) (AnnotationType, bool) {
	t := AnnotationType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// SearchProvider names a search strategy.
type SearchProvider string

// Available search providers.
const (
	// ProviderLocal is case-insensitive substring matching over titles and content.
	ProviderLocal SearchProvider = "LOCAL"

	// ProviderSemantic is a placeholder layered on ProviderLocal.
	ProviderSemantic SearchProvider = "SEMANTIC"

	// ProviderHybrid merges local and semantic results.
	ProviderHybrid SearchProvider = "HYBRID"

	// ProviderExternal is reserved for a remote engine and falls back to ProviderLocal.
	ProviderExternal SearchProvider = "EXTERNAL"
)

// SearchProviders returns every provider in display order.
func SearchProviders() []SearchProvider {
	return []SearchProvider{ProviderLocal, ProviderSemantic, ProviderHybrid, ProviderExternal}
}

// IsValid returns true if the provider is recognised.
func (p SearchProvider) IsValid() bool {
	switch p {
	case ProviderLocal, ProviderSemantic, ProviderHybrid, ProviderExternal:
		return true
	default:
		return false
	}
}

// String returns the provider name.
func (p SearchProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p SearchProvider) Description() string {
	switch p {
	case ProviderLocal:
		return "Local (substring match)"
	case ProviderSemantic:
		return "Semantic (placeholder over local)"
	case ProviderHybrid:
		return "Hybrid (local + semantic, deduplicated)"
	case ProviderExternal:
		return "External (falls back to local)"
	default:
		return "Unknown"
	}
}

// ParseSearchProvider converts a case-insensitive name into a SearchProvider.
// An empty string yields ProviderLocal.
func ParseSearchProvider(s string) (SearchProvider, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProviderLocal, nil
	}
	p := SearchProvider(strings.ToUpper(s))
	if !p.IsValid() {
		return "", ErrUnsupportedProvider
	}
	return p, nil
}
