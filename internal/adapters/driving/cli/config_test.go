package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vibe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vibe/internal/core/domain"
)

func TestConfigCmd_SetThenShow(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, nil, "--config", dir, "config", "set", "search.max_results", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "search.max_results = 25")

	_, err = runCLI(t, nil, "--config", dir, "config", "set", "search.provider", "hybrid")
	require.NoError(t, err)

	out, err = runCLI(t, nil, "--config", dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "search.max_results = 25")
	assert.Contains(t, out, "search.provider = HYBRID")
	assert.Contains(t, out, "storage.upload_dir = uploads")
	assert.Equal(t, 25, configStore.GetInt(file.KeySearchMaxResults))
}

func TestConfigCmd_SetRejectsBadValue(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, nil, "--config", dir, "config", "set", "search.max_results", "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCLI(t, nil, "--config", dir, "config", "set", "no.such.key", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, ok := configStore.Get(file.KeySearchMaxResults)
	assert.False(t, ok)
}

func TestConfigCmd_Path(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, nil, "--config", dir, "config", "path")

	require.NoError(t, err)
	assert.Contains(t, out, file.ConfigFile)
}

func TestParseSetting(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr error
	}{
		{file.KeyUploadDir, "/data/files", "/data/files", nil},
		{file.KeyUploadDir, " ", nil, domain.ErrInvalidInput},
		{file.KeySearchProvider, "semantic", "SEMANTIC", nil},
		{file.KeySearchProvider, "magic", nil, domain.ErrUnsupportedProvider},
		{file.KeySearchMaxResults, "10", 10, nil},
		{file.KeySearchMaxResults, "0", nil, domain.ErrInvalidInput},
		{file.KeyLogVerbose, "true", true, nil},
		{file.KeyLogVerbose, "sometimes", nil, domain.ErrInvalidInput},
		{file.KeyInboxRate, "0.5", 0.5, nil},
		{file.KeyInboxRate, "-1", nil, domain.ErrInvalidInput},
		{"unknown", "x", nil, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			got, err := parseSetting(tt.key, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
