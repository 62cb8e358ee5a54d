package domain

import (
	"maps"
	"slices"
	"sort"
	"time"
)

// Attachment describes the file attached to a document.
// A document either has all four fields (a non-nil *Attachment) or none.
type Attachment struct {
	// Path is where the payload is stored.
	Path string

	// Name is the original, user-facing file name.
	Name string

	// ContentType is the declared MIME type.
	ContentType string

	// Size is the stored payload size in bytes.
	Size int64
}

// Document is a piece of user content held by a workspace.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	Content string

	// File is the attached file, nil when there is none.
	File *Attachment

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// Annotations in insertion order.
	Annotations []*Annotation

	// Citations attached directly to the document, in insertion order.
	Citations []Citation

	// Comments is the legacy free-text comment list.
	Comments []string

	// Tags is the document's tag set.
	Tags map[string]struct{}

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// UpdatedAt is refreshed on every structural mutation.
	UpdatedAt time.Time

	// Embedding is the vector representation, if one has been computed.
	Embedding []float32

	// Indexed reports whether the document has been indexed for search.
	Indexed bool
}

// Touch refreshes UpdatedAt.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now()
}

// HasFile reports whether a file is attached.
func (d *Document) HasFile() bool {
	return d.File != nil
}

// AddAnnotation appends an annotation.
func (d *Document) AddAnnotation(a *Annotation) {
	d.Annotations = append(d.Annotations, a)
	d.Touch()
}

// InsertAnnotation places an annotation at index i, clamped to the valid range.
// It is used to restore a removed annotation to its original position.
func (d *Document) InsertAnnotation(i int, a *Annotation) {
	i = max(0, min(i, len(d.Annotations)))
	d.Annotations = slices.Insert(slices.Clip(d.Annotations), i, a)
	d.Touch()
}

// Annotation returns the annotation with the given ID and its index.
func (d *Document) Annotation(id string) (*Annotation, int) {
	for i, a := range d.Annotations {
		if a.ID == id {
			return a, i
		}
	}
	return nil, -1
}

// RemoveAnnotation removes the annotation with the given ID.
// Returns false, changing nothing, if no such annotation exists.
func (d *Document) RemoveAnnotation(id string) bool {
	_, i := d.Annotation(id)
	if i < 0 {
		return false
	}
	if len(d.Annotations) == 1 {
		d.Annotations = nil
	} else {
		d.Annotations = slices.Delete(slices.Clone(d.Annotations), i, i+1)
	}
	d.Touch()
	return true
}

// AddCitation appends a citation to the document.
func (d *Document) AddCitation(c Citation) {
	d.Citations = append(d.Citations, c)
	d.Touch()
}

// RemoveCitation removes the latest citation with the given ID.
// Returns false, changing nothing, if no such citation exists.
func (d *Document) RemoveCitation(id string) bool {
	var ok bool
	d.Citations, ok = removeCitation(d.Citations, id)
	if ok {
		d.Touch()
	}
	return ok
}

// AddTag adds a tag to the set.
func (d *Document) AddTag(tag string) {
	if d.Tags == nil {
		d.Tags = make(map[string]struct{})
	}
	d.Tags[tag] = struct{}{}
	d.Touch()
}

// RemoveTag removes a tag from the set.
// Returns false, leaving UpdatedAt untouched, if the tag is absent.
func (d *Document) RemoveTag(tag string) bool {
	if !d.HasTag(tag) {
		return false
	}
	delete(d.Tags, tag)
	d.Touch()
	return true
}

// HasTag reports whether the tag is present.
func (d *Document) HasTag(tag string) bool {
	_, ok := d.Tags[tag]
	return ok
}

// TagList returns the tags in sorted order.
func (d *Document) TagList() []string {
	tags := make([]string, 0, len(d.Tags))
	for t := range d.Tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// SetTags replaces the tag set.
func (d *Document) SetTags(tags []string) {
	d.Tags = NewTagSet(tags...)
	d.Touch()
}

// NewTagSet builds a tag set from a list, dropping empty entries.
func NewTagSet(tags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	if d.File != nil {
		f := *d.File
		c.File = &f
	}
	c.Metadata = maps.Clone(d.Metadata)
	if d.Annotations != nil {
		c.Annotations = make([]*Annotation, len(d.Annotations))
		for i, a := range d.Annotations {
			c.Annotations[i] = a.Clone()
		}
	}
	c.Citations = slices.Clone(d.Citations)
	c.Comments = slices.Clone(d.Comments)
	c.Tags = maps.Clone(d.Tags)
	c.Embedding = slices.Clone(d.Embedding)
	return &c
}

// ToMap converts the document into its nested-map form.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"title":       d.Title,
		"content":     d.Content,
		"file_path":   nil,
		"file_name":   nil,
		"file_type":   nil,
		"file_size":   nil,
		"has_file":    d.HasFile(),
		"metadata":    d.Metadata,
		"citations":   citationMaps(d.Citations),
		"comments":    d.Comments,
		"tags":        d.TagList(),
		"created_at":  formatTime(d.CreatedAt),
		"updated_at":  formatTime(d.UpdatedAt),
		"is_indexed":  d.Indexed,
		"annotations": nil,
	}
	if d.File != nil {
		m["file_path"] = d.File.Path
		m["file_name"] = d.File.Name
		m["file_type"] = d.File.ContentType
		m["file_size"] = d.File.Size
	}
	annotations := make([]map[string]any, len(d.Annotations))
	for i, a := range d.Annotations {
		annotations[i] = a.ToMap()
	}
	m["annotations"] = annotations
	return m
}
