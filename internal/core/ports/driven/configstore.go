package driven

// ConfigStore provides access to application configuration.
// Keys are dot-separated paths into the configuration tree,
// e.g. "search.max_results".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString returns a string value, or "" if missing or mistyped.
	GetString(key string) string

	// GetInt returns an integer value, or 0 if missing or mistyped.
	GetInt(key string) int

	// GetFloat returns a numeric value as float64, or 0 if missing or mistyped.
	GetFloat(key string) float64

	// GetBool returns a boolean value, or false if missing or mistyped.
	GetBool(key string) bool

	// Keys returns every key that holds a value, sorted.
	Keys() []string

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage.
	// A missing file yields an empty configuration.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
