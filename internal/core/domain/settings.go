package domain

// Settings holds application configuration.
type Settings struct {
	// UploadDir is where attached files are stored.
	UploadDir string

	// Search holds search defaults.
	Search SearchSettings

	// Verbose enables debug logging.
	Verbose bool

	// InboxRate is the maximum number of inbox imports per second.
	InboxRate float64
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Provider is the default search strategy.
	Provider SearchProvider

	// MaxResults is the default result cap.
	MaxResults int
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		UploadDir: "uploads",
		Search: SearchSettings{
			Provider:   ProviderLocal,
			MaxResults: DefaultMaxResults,
		},
		InboxRate: 2,
	}
}

// Validate normalises out-of-range values to their defaults.
func (s *Settings) Validate() {
	defaults := DefaultSettings()
	if s.UploadDir == "" {
		s.UploadDir = defaults.UploadDir
	}
	if !s.Search.Provider.IsValid() {
		s.Search.Provider = defaults.Search.Provider
	}
	if s.Search.MaxResults <= 0 {
		s.Search.MaxResults = defaults.Search.MaxResults
	}
	if s.InboxRate <= 0 {
		s.InboxRate = defaults.InboxRate
	}
}
