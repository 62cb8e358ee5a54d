package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.ElementsMatch(t, []string{"text/html", "application/xhtml+xml"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	page := `<html><head><title>Brief &amp; Notes</title><style>p{}</style></head>
<body><h1>Heading</h1><p>First   paragraph.</p><script>alert(1)</script>
<!-- hidden --><p>Second<br>line &lt;3</p></body></html>`
	raw := &domain.RawFile{Name: "page.html", MIMEType: "text/html", Content: []byte(page)}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Brief & Notes", result.Title)
	assert.Equal(t, "Heading\nFirst paragraph.\nSecond\nline <3", result.Content)
	assert.Equal(t, "html", result.Format)
}

func TestNormalise_NilFile(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtractTitle_Missing(t *testing.T) {
	assert.Empty(t, extractTitle("<p>no title</p>"))
	assert.Empty(t, extractTitle("<title>   </title>"))
}

func TestStripHTML_RemovesHiddenContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script", "a<script>var x</script>b", "ab"},
		{"style", "a<style>.x{}</style>b", "ab"},
		{"noscript", "a<noscript>enable js</noscript>b", "ab"},
		{"svg", "a<svg><text>x</text></svg>b", "ab"},
		{"comment", "a<!-- note -->b", "ab"},
		{"head", `<head lang="en"><title>T</title></head>body`, "body"},
		{"header kept", "<header>Caption</header><head></head>", "Caption"},
		{"inline tags", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"entities", "&quot;quoted&quot; &amp; more", `"quoted" & more`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.input))
		})
	}
}
