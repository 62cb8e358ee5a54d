package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/x-go")
	assert.Contains(t, mimeTypes, "application/json")
	assert.Contains(t, mimeTypes, "application/octet-stream")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawFile{
		Name:     "document.txt",
		MIMEType: "text/plain",
		Content:  []byte("This is plain text content."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Equal(t, "This is plain text content.", result.Content)
	assert.Equal(t, "text", result.Format)
}

func TestNormalise_NilFile(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	raw := &domain.RawFile{Name: "empty.txt", MIMEType: "text/plain"}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestNormalise_RejectsBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"nul byte", []byte("abc\x00def")},
		{"invalid utf8", []byte{0xff, 0xfe, 0x41}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawFile{Name: "blob", MIMEType: "application/octet-stream", Content: tt.content}

			result, err := New().Normalise(context.Background(), raw)

			assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
			assert.Nil(t, result)
		})
	}
}

func TestNormalise_Unicode(t *testing.T) {
	raw := &domain.RawFile{Name: "u.txt", MIMEType: "text/plain", Content: []byte("naïve café 日本語")}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "naïve café 日本語", result.Content)
}
