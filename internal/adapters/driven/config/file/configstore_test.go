package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFile), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestNewConfigStore_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("not = [valid"), 0o600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_Getters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a.string", "hello"))
	require.NoError(t, store.Set("a.int", 42))
	require.NoError(t, store.Set("a.float", 1.5))
	require.NoError(t, store.Set("a.bool", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("a.string"), "hello"},
		{"int", store.GetInt("a.int"), 42},
		{"float", store.GetFloat("a.float"), 1.5},
		{"int as float", store.GetFloat("a.int"), 42.0},
		{"bool", store.GetBool("a.bool"), true},
		{"missing string", store.GetString("missing"), ""},
		{"missing int", store.GetInt("missing"), 0},
		{"missing bool", store.GetBool("missing"), false},
		{"mistyped string", store.GetString("a.int"), ""},
		{"mistyped int", store.GetInt("a.string"), 0},
		{"mistyped float", store.GetFloat("a.bool"), 0.0},
		{"mistyped bool", store.GetBool("a.string"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, []string{"a.bool", "a.float", "a.int", "a.string"}, store.Keys())
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("search.provider", "HYBRID"))
	require.NoError(t, store.Set("search.max_results", 5))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[search]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "HYBRID", reloaded.GetString("search.provider"))
	assert.Equal(t, 5, reloaded.GetInt("search.max_results"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[storage]
upload_dir = "/srv/uploads"

[inbox]
rate = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "/srv/uploads", store.GetString("storage.upload_dir"))
	assert.Equal(t, 4.0, store.GetFloat("inbox.rate"))
}

func TestConfigStore_SetRejectsConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("log", "plain"))

	assert.Error(t, store.Set("log.verbose", true))
}

func TestConfigStore_SetRejectsMalformedKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".a", "a."} {
		assert.Error(t, store.Set(key, 1), "key %q", key)
	}
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)

	back, err := nestMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}
