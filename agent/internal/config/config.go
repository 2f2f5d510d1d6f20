package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // timezone must resolve on hosts without a zoneinfo database

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval  = 5 * time.Minute
	DefaultShipInterval  = 15 * time.Second
	DefaultBufferSize    = 1000
	DefaultConcurrency   = 3
	DefaultRatePerSecond = 2.0
	DefaultJoltTimeout   = 30 * time.Second
	DefaultTimezone      = "America/New_York"
)

// Config is the top-level agent configuration. The `server:` key of a shared
// config.yaml is ignored here.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all agent-side settings.
type AgentConfig struct {
	// ServerEndpoint is the gRPC address of jolt-server (host:port).
	ServerEndpoint string `yaml:"server_endpoint"`

	// PollInterval controls how often every location's lists are fetched.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ShipInterval controls how often buffered reports are sent to the server.
	ShipInterval time.Duration `yaml:"ship_interval"`

	// BufferSize is the maximum number of reports held in memory when
	// the server is unreachable.
	BufferSize int `yaml:"buffer_size"`

	// Concurrency bounds the number of locations fetched in parallel.
	Concurrency int `yaml:"concurrency"`

	// RatePerSecond caps outgoing checklist API requests.
	RatePerSecond float64 `yaml:"rate_per_second"`

	// Timezone is the IANA zone that defines "today" for every location.
	Timezone string `yaml:"timezone"`

	// MetadataCSV is the path of the site/store/market/district sheet.
	// Optional; locations stay Unassigned without it.
	MetadataCSV string `yaml:"metadata_csv"`

	// Locations restricts polling to these location ids. Empty means all.
	Locations []string `yaml:"locations"`

	// SafetyGrid enables the monthly audit/agenda fetch per location.
	SafetyGrid bool `yaml:"safety_grid"`

	// Jolt configures the checklist GraphQL endpoint.
	Jolt JoltConfig `yaml:"jolt"`

	// ServerAuth configures how the agent authenticates to jolt-server.
	// Supports: mtls | apikey | none.
	ServerAuth AuthConfig `yaml:"server_auth"`
}

// JoltConfig describes the checklist API endpoint (usually a proxy in front
// of the vendor's GraphQL service).
type JoltConfig struct {
	// Endpoint is the full URL that accepts GraphQL POST bodies.
	Endpoint string `yaml:"endpoint"`

	// Auth configures how the agent authenticates to the endpoint.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig specifies an authentication mode.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// mTLS fields, used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// Header is the HTTP header (or gRPC metadata key) carrying the API key.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// TokenEnv is the name of the environment variable that holds the bearer token.
	TokenEnv string `yaml:"token_env"`

	// Username is the literal basic-auth username.
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// EffectiveHeader returns the configured header name, or "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// TLSConfig holds TLS dial options.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (a AgentConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

// Allowed reports whether id passes the location allow-list.
func (a AgentConfig) Allowed(id string) bool {
	if len(a.Locations) == 0 {
		return true
	}
	for _, l := range a.Locations {
		if l == id {
			return true
		}
	}
	return false
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			PollInterval:  DefaultPollInterval,
			ShipInterval:  DefaultShipInterval,
			BufferSize:    DefaultBufferSize,
			Concurrency:   DefaultConcurrency,
			RatePerSecond: DefaultRatePerSecond,
			Timezone:      DefaultTimezone,
			Jolt: JoltConfig{
				Timeout: DefaultJoltTimeout,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Agent
	if a.ServerEndpoint == "" {
		return fmt.Errorf("agent.server_endpoint is required")
	}
	if a.Jolt.Endpoint == "" {
		return fmt.Errorf("agent.jolt.endpoint is required")
	}
	if a.PollInterval <= 0 {
		return fmt.Errorf("agent.poll_interval must be positive")
	}
	if a.ShipInterval <= 0 {
		return fmt.Errorf("agent.ship_interval must be positive")
	}
	if a.BufferSize <= 0 {
		return fmt.Errorf("agent.buffer_size must be positive")
	}
	if a.Concurrency <= 0 {
		return fmt.Errorf("agent.concurrency must be positive")
	}
	if a.RatePerSecond < 0 {
		return fmt.Errorf("agent.rate_per_second must not be negative")
	}
	if _, err := a.Location(); err != nil {
		return fmt.Errorf("agent.timezone: %w", err)
	}
	switch a.Jolt.Auth.Mode {
	case "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("agent.jolt.auth: unknown mode %q", a.Jolt.Auth.Mode)
	}
	switch a.ServerAuth.Mode {
	case "mtls", "apikey", "none", "":
	default:
		return fmt.Errorf("agent.server_auth: unknown mode %q", a.ServerAuth.Mode)
	}
	return nil
}
