package types

import "errors"

// Config holds backend selection and the settings handed to Store.Attach
// and the command layer.
type Config struct {
	Backend        string         `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir        string         `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	BirthdayPolicy BirthdayPolicy `json:"birthday_policy" yaml:"birthday_policy" mapstructure:"birthday_policy"`
	PageSize       int            `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
	LogLevel       string         `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied when a config value is absent.
const (
	DefaultPageSize       = 5
	DefaultBirthdayPolicy = BirthdayLenient
	DefaultLogLevel       = "warn"
)

// Config validation errors.
var (
	ErrBackendEmpty          = errors.New("backend must not be empty")
	ErrBackendUnknown        = errors.New("unknown backend")
	ErrBirthdayPolicyUnknown = errors.New("unknown birthday policy")
	ErrPageSizeInvalid       = errors.New("page size must be positive")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// DefaultConfig returns a Config with the sqlite backend and default
// settings. DataDir is left empty for the caller to resolve.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendSQLite,
		BirthdayPolicy: DefaultBirthdayPolicy,
		PageSize:       DefaultPageSize,
		LogLevel:       DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. An empty birthday policy
// and a zero page size are accepted and mean the defaults.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.BirthdayPolicy {
	case "", BirthdayLenient, BirthdayStrict:
	default:
		return ErrBirthdayPolicyUnknown
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	return nil
}

// Policy returns the configured birthday policy, defaulting to lenient.
func (c Config) Policy() BirthdayPolicy {
	if c.BirthdayPolicy == "" {
		return DefaultBirthdayPolicy
	}
	return c.BirthdayPolicy
}

// Pages returns the configured page size, defaulting to DefaultPageSize.
func (c Config) Pages() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}
