package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), LoadSettings(store))
	assert.Equal(t, domain.DefaultSettings(), LoadSettings(nil))
}

func TestLoadSettings_FromStore(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyUploadDir, "/tmp/up"))
	require.NoError(t, store.Set(KeySearchProvider, "semantic"))
	require.NoError(t, store.Set(KeySearchMaxResults, 3))
	require.NoError(t, store.Set(KeyLogVerbose, true))
	require.NoError(t, store.Set(KeyInboxRate, 0.5))

	s := LoadSettings(store)

	assert.Equal(t, "/tmp/up", s.UploadDir)
	assert.Equal(t, domain.ProviderSemantic, s.Search.Provider)
	assert.Equal(t, 3, s.Search.MaxResults)
	assert.True(t, s.Verbose)
	assert.Equal(t, 0.5, s.InboxRate)
}

func TestLoadSettings_InvalidValuesFallBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(KeySearchProvider, "oracle"))
	require.NoError(t, store.Set(KeySearchMaxResults, -4))
	require.NoError(t, store.Set(KeyInboxRate, -1))

	s := LoadSettings(store)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Search, s.Search)
	assert.Equal(t, defaults.InboxRate, s.InboxRate)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	want := domain.Settings{
		UploadDir: "files",
		Search:    domain.SearchSettings{Provider: domain.ProviderHybrid, MaxResults: 7},
		Verbose:   true,
		InboxRate: 3.5,
	}

	require.NoError(t, SaveSettings(store, want))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, want, LoadSettings(reloaded))
}
