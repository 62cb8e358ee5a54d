package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "uploads", s.UploadDir)
	assert.Equal(t, ProviderLocal, s.Search.Provider)
	assert.Equal(t, DefaultMaxResults, s.Search.MaxResults)
	assert.False(t, s.Verbose)
	assert.Greater(t, s.InboxRate, 0.0)
}

func TestSettings_Validate(t *testing.T) {
	s := Settings{
		Search: SearchSettings{Provider: "bogus", MaxResults: -3},
	}

	s.Validate()

	assert.Equal(t, "uploads", s.UploadDir)
	assert.Equal(t, ProviderLocal, s.Search.Provider)
	assert.Equal(t, DefaultMaxResults, s.Search.MaxResults)
	assert.Equal(t, 2.0, s.InboxRate)
}

func TestSettings_ValidateKeepsValidValues(t *testing.T) {
	s := Settings{
		UploadDir: "/tmp/files",
		Search:    SearchSettings{Provider: ProviderHybrid, MaxResults: 25},
		InboxRate: 5,
	}

	s.Validate()

	assert.Equal(t, "/tmp/files", s.UploadDir)
	assert.Equal(t, ProviderHybrid, s.Search.Provider)
	assert.Equal(t, 25, s.Search.MaxResults)
	assert.Equal(t, 5.0, s.InboxRate)
}

// TestSearchProvider_IsValid tests all valid and invalid providers
func TestSearchProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider SearchProvider
		expected bool
	}{
		{name: "local", provider: ProviderLocal, expected: true},
		{name: "semantic", provider: ProviderSemantic, expected: true},
		{name: "hybrid", provider: ProviderHybrid, expected: true},
		{name: "external", provider: ProviderExternal, expected: true},
		{name: "empty", provider: SearchProvider(""), expected: false},
		{name: "lowercase", provider: SearchProvider("local"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestParseSearchProvider(t *testing.T) {
	p, err := ParseSearchProvider("hybrid")
	assert.NoError(t, err)
	assert.Equal(t, ProviderHybrid, p)

	p, err = ParseSearchProvider("")
	assert.NoError(t, err)
	assert.Equal(t, ProviderLocal, p)

	_, err = ParseSearchProvider("vector")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestParseAnnotationType(t *testing.T) {
	for _, want := range AnnotationTypes() {
		got, ok := ParseAnnotationType(string(want))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	got, ok := ParseAnnotationType(" highlight ")
	assert.True(t, ok)
	assert.Equal(t, AnnotationHighlight, got)

	_, ok = ParseAnnotationType("scribble")
	assert.False(t, ok)
}

func TestMessageRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleSystem.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, MessageRole("BOT").IsValid())
}
