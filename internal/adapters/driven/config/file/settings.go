package file

import (
	"github.com/custodia-labs/vibe/internal/core/domain"
	"github.com/custodia-labs/vibe/internal/core/ports/driven"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Configuration keys.
const (
	KeyUploadDir        = "storage.upload_dir"
	KeySearchProvider   = "search.provider"
	KeySearchMaxResults = "search.max_results"
	KeyLogVerbose       = "log.verbose"
	KeyInboxRate        = "inbox.rate"
)

// LoadSettings reads typed settings from a config store, falling back to
// defaults for missing or out-of-range values.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()
	if store == nil {
		return s
	}

	if dir := store.GetString(KeyUploadDir); dir != "" {
		s.UploadDir = dir
	}
	if raw := store.GetString(KeySearchProvider); raw != "" {
		p, err := domain.ParseSearchProvider(raw)
		if err != nil {
			logger.Warn("Ignoring %s: %v", KeySearchProvider, err)
		} else {
			s.Search.Provider = p
		}
	}
	if n := store.GetInt(KeySearchMaxResults); n != 0 {
		s.Search.MaxResults = n
	}
	s.Verbose = store.GetBool(KeyLogVerbose)
	if r := store.GetFloat(KeyInboxRate); r != 0 {
		s.InboxRate = r
	}

	s.Validate()
	return s
}

// SaveSettings writes settings back to a config store.
func SaveSettings(store driven.ConfigStore, s domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyUploadDir, s.UploadDir},
		{KeySearchProvider, string(s.Search.Provider)},
		{KeySearchMaxResults, s.Search.MaxResults},
		{KeyLogVerbose, s.Verbose},
		{KeyInboxRate, s.InboxRate},
	}
	for _, v := range values {
		if err := store.Set(v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}
