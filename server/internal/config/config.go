package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression: "integrity_min < 60",
	// "corrective_actions > 0", "missing_dayparts >= 1", "sanitizer == EXPIRED".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Default values for the server configuration.
const (
	DefaultGRPCPort         = 50051
	DefaultHTTPPort         = 8080
	DefaultSnapshotTTL      = 30 * time.Minute
	DefaultBroadcastEvery   = 5 * time.Second
	DefaultHistoryRetention = 90 * 24 * time.Hour
	DefaultHistoryPath      = "jolt-history.db"
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml. The `agent:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// GRPCPort is the port the gRPC receiver listens on (default 50051).
	GRPCPort int `yaml:"grpc_port"`

	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates agents and dashboard users.
	Auth AuthConfig `yaml:"auth"`

	// Snapshot controls in-memory report retention and push cadence.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Storage configures the optional daypart history backend.
	Storage StorageConfig `yaml:"storage"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the agent API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the gRPC metadata key (and HTTP header name) to read keys from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`

	// Users maps dashboard API keys to access profiles. Only used for the
	// REST API and WebSocket when Mode == "apikey".
	Users []UserConfig `yaml:"users"`
}

// UserConfig is one dashboard user profile.
type UserConfig struct {
	// Name identifies the user in logs.
	Name string `yaml:"name"`

	// Role is one of: admin | market | district | store. Empty means admin.
	Role string `yaml:"role"`

	// Scope is a comma-separated list of markets, districts or store names
	// visible to the user, depending on Role.
	Scope string `yaml:"scope"`

	// KeyEnv is the environment variable that holds this user's API key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the user's API key resolved from the environment.
func (u UserConfig) Key() string {
	if u.KeyEnv == "" {
		return ""
	}
	return os.Getenv(u.KeyEnv)
}

// Key returns the expected agent API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// SnapshotConfig controls in-memory report retention.
type SnapshotConfig struct {
	// TTL is how long a location's report stays live after its last update.
	TTL time.Duration `yaml:"ttl"`

	// BroadcastInterval is how often the WebSocket hub pushes a snapshot.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// StorageConfig configures the daypart history backend.
type StorageConfig struct {
	// Backend selects the implementation: sqlite, or empty to disable history.
	Backend string `yaml:"backend"`

	// Path is the filesystem path for the SQLite database file.
	Path string `yaml:"path"`

	// Retention is how long daypart records are kept before deletion.
	Retention time.Duration `yaml:"retention"`
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort: DefaultGRPCPort,
			HTTPPort: DefaultHTTPPort,
			Snapshot: SnapshotConfig{
				TTL:               DefaultSnapshotTTL,
				BroadcastInterval: DefaultBroadcastEvery,
			},
			Storage: StorageConfig{
				Path:      DefaultHistoryPath,
				Retention: DefaultHistoryRetention,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.GRPCPort <= 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", s.GRPCPort)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	for i, u := range s.Auth.Users {
		switch u.Role {
		case "admin", "market", "district", "store", "":
		default:
			return fmt.Errorf("server.auth.users[%d] %q: unknown role %q", i, u.Name, u.Role)
		}
		if u.KeyEnv == "" {
			return fmt.Errorf("server.auth.users[%d] %q: key_env is required", i, u.Name)
		}
	}
	if s.Snapshot.TTL < 0 {
		return fmt.Errorf("server.snapshot.ttl must not be negative")
	}
	if s.Snapshot.BroadcastInterval <= 0 {
		return fmt.Errorf("server.snapshot.broadcast_interval must be positive")
	}
	switch s.Storage.Backend {
	case "sqlite":
		if s.Storage.Path == "" {
			return fmt.Errorf("server.storage.path is required for sqlite")
		}
	case "":
	default:
		return fmt.Errorf("server.storage.backend %q unknown: want sqlite or empty", s.Storage.Backend)
	}
	if s.Storage.Retention < 0 {
		return fmt.Errorf("server.storage.retention must not be negative")
	}
	for i, w := range s.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("server.alerts.webhooks[%d]: unknown type %q", i, w.Type)
		}
	}
	return nil
}
