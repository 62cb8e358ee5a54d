package domain

// RawFile is a file payload awaiting text extraction.
type RawFile struct {
	// Name is the original file name.
	Name string

	// MIMEType is the detected content type, without parameters.
	MIMEType string

	// Content is the raw payload.
	Content []byte
}
