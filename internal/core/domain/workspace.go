package domain

import (
	"slices"
	"sort"
	"time"
)

// Workspace is one user's session-scoped container of messages and documents.
// It owns every Document and Message it holds and is mutated only through
// its methods, each of which refreshes LastActivity.
type Workspace struct {
	// ID is the unique workspace identifier.
	ID string

	// Messages in the order they were added.
	Messages []*Message

	// UserProfile is the attached profile, nil if anonymous.
	UserProfile *UserProfile

	// ActiveDocumentID is the document being viewed, empty for none.
	ActiveDocumentID string

	// SessionStart is when the workspace was opened.
	SessionStart time.Time

	// LastActivity is refreshed by every mutation.
	LastActivity time.Time

	documents     map[string]*Document
	order         []string
	searchResults map[string][]SearchResult
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(id string, profile *UserProfile) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:            id,
		UserProfile:   profile,
		SessionStart:  now,
		LastActivity:  now,
		documents:     make(map[string]*Document),
		searchResults: make(map[string][]SearchResult),
	}
}

func (w *Workspace) touch() {
	w.LastActivity = time.Now()
}

// AddMessage appends a message, stamping it if it has no timestamp.
func (w *Workspace) AddMessage(msg Message) *Message {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if msg.Metadata == nil {
		msg.Metadata = map[string]any{}
	}
	m := &msg
	w.Messages = append(w.Messages, m)
	w.touch()
	return m
}

// AddDocument stores a document, replacing any document with the same ID.
func (w *Workspace) AddDocument(d *Document) {
	if w.documents == nil {
		w.documents = make(map[string]*Document)
	}
	if _, exists := w.documents[d.ID]; !exists {
		w.order = append(w.order, d.ID)
	}
	w.documents[d.ID] = d
	w.touch()
}

// Document returns the document with the given ID.
func (w *Workspace) Document(id string) (*Document, bool) {
	d, ok := w.documents[id]
	return d, ok
}

// RemoveDocument removes a document.
// Returns false if the workspace does not hold it.
func (w *Workspace) RemoveDocument(id string) bool {
	if _, ok := w.documents[id]; !ok {
		return false
	}
	delete(w.documents, id)
	w.order = slices.DeleteFunc(w.order, func(x string) bool { return x == id })
	if w.ActiveDocumentID == id {
		w.ActiveDocumentID = ""
	}
	w.touch()
	return true
}

// Documents returns the documents in insertion order.
func (w *Workspace) Documents() []*Document {
	docs := make([]*Document, 0, len(w.order))
	for _, id := range w.order {
		docs = append(docs, w.documents[id])
	}
	return docs
}

// DocumentCount returns the number of documents held.
func (w *Workspace) DocumentCount() int {
	return len(w.documents)
}

// SetActiveDocument selects the document being viewed. An empty id clears
// the selection. Fails for an id the workspace does not hold. On success
// the view is recorded in the attached profile, if any.
func (w *Workspace) SetActiveDocument(id string) bool {
	if id != "" {
		if _, ok := w.documents[id]; !ok {
			return false
		}
	}
	w.ActiveDocumentID = id
	if id != "" && w.UserProfile != nil {
		w.UserProfile.AddViewedDocument(id)
	}
	w.touch()
	return true
}

// StoreSearchResults records results for a query, overwriting earlier
// results for that exact query string.
func (w *Workspace) StoreSearchResults(query string, results []SearchResult) {
	if w.searchResults == nil {
		w.searchResults = make(map[string][]SearchResult)
	}
	w.searchResults[query] = results
	w.touch()
}

// SearchResults returns the stored results for a query.
func (w *Workspace) SearchResults(query string) ([]SearchResult, bool) {
	r, ok := w.searchResults[query]
	return r, ok
}

// SearchQueries returns the queries with stored results, sorted.
func (w *Workspace) SearchQueries() []string {
	queries := make([]string, 0, len(w.searchResults))
	for q := range w.searchResults {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	return queries
}

// ClearSearchResults drops stored results for one query, or for every
// query when query is empty.
func (w *Workspace) ClearSearchResults(query string) {
	if query == "" {
		clear(w.searchResults)
	} else {
		delete(w.searchResults, query)
	}
	w.touch()
}

// ToMap converts the workspace into its nested-map form.
func (w *Workspace) ToMap() map[string]any {
	messages := make([]map[string]any, len(w.Messages))
	for i, m := range w.Messages {
		messages[i] = m.ToMap()
	}
	documents := make(map[string]any, len(w.documents))
	for id, d := range w.documents {
		documents[id] = d.ToMap()
	}
	results := make(map[string]any, len(w.searchResults))
	for q, rs := range w.searchResults {
		list := make([]map[string]any, len(rs))
		for i := range rs {
			list[i] = rs[i].ToMap()
		}
		results[q] = list
	}
	var profile any
	if w.UserProfile != nil {
		profile = w.UserProfile.ToMap()
	}
	return map[string]any{
		"id":                    w.ID,
		"messages":              messages,
		"documents":             documents,
		"user_profile":          profile,
		"session_start":         formatTime(w.SessionStart),
		"last_activity":         formatTime(w.LastActivity),
		"active_search_results": results,
		"active_document_id":    optionalString(w.ActiveDocumentID),
	}
}
