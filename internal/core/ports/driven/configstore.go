package driven

// ConfigStore provides access to application configuration.
// Keys are dot-separated, e.g. "provider.site". Implementations handle
// persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when unset or not an integer.
	GetInt(key string) int

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Load re-reads configuration from storage, replacing in-memory values.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
