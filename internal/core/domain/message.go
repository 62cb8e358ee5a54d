package domain

import (
	"slices"
	"time"
)

// Message is one turn of dialogue within a workspace.
// Messages are not modified after they are appended to a workspace.
type Message struct {
	Role                MessageRole
	Content             string
	Timestamp           time.Time
	Citations           []Citation
	ReferencedDocuments []string
	Metadata            map[string]any
}

// AddCitation attaches a citation to the message.
func (m *Message) AddCitation(c Citation) {
	m.Citations = append(m.Citations, c)
}

// AddDocumentReference records a referenced document once.
func (m *Message) AddDocumentReference(documentID string) {
	if !slices.Contains(m.ReferencedDocuments, documentID) {
		m.ReferencedDocuments = append(m.ReferencedDocuments, documentID)
	}
}

// ToMap converts the message into its nested-map form.
func (m *Message) ToMap() map[string]any {
	refs := m.ReferencedDocuments
	if refs == nil {
		refs = []string{}
	}
	meta := m.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"role":                 m.Role.String(),
		"content":              m.Content,
		"timestamp":            formatTime(m.Timestamp),
		"citations":            citationMaps(m.Citations),
		"referenced_documents": refs,
		"metadata":             meta,
	}
}
