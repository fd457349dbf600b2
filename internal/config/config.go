package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables used when the config file leaves the bridge unset.
const (
	EnvBridge = "HUE_BRIDGE_IP"
	EnvToken  = "HUE_API_KEY"
)

// Config represents the application configuration
type Config struct {
	Hue             HueConfig         `yaml:"hue"`
	Color           ColorConfig       `yaml:"color"`
	Log             LogConfig         `yaml:"log"`
	Ledger          LedgerConfig      `yaml:"ledger"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// HueConfig contains Hue bridge connection settings
type HueConfig struct {
	Bridge  string   `yaml:"bridge"`
	Token   string   `yaml:"token"`
	Timeout Duration `yaml:"timeout"` // HTTP timeout for Hue API requests

	// Requests per second; 0 selects the default, a negative value disables limiting
	RateLimitRPS      float64 `yaml:"rate_limit_rps"`       // Light requests (default: 10)
	GroupRateLimitRPS float64 `yaml:"group_rate_limit_rps"` // Group requests (default: 1)
}

// ColorConfig contains color resolution settings
type ColorConfig struct {
	Strict bool              `yaml:"strict"` // Reject unknown names and malformed hex instead of using white
	Names  map[string]string `yaml:"names"`  // Extra color names, name -> hex
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the level name, lowercased
func (c *LogConfig) GetLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Level))
}

// LedgerConfig contains invocation ledger settings
type LedgerConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Path            string   `yaml:"path"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	RetentionDays   int      `yaml:"retention_days"`
}

// Retention returns the retention window as a duration
func (c *LedgerConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Addr returns host:port for the listener
func (c *HealthcheckConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file. A missing file is not an
// error: the environment alone can configure the server.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		// Expand environment variables
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Hue defaults
	if cfg.Hue.Bridge == "" {
		cfg.Hue.Bridge = os.Getenv(EnvBridge)
	}
	if cfg.Hue.Token == "" {
		cfg.Hue.Token = os.Getenv(EnvToken)
	}
	if cfg.Hue.Timeout == 0 {
		cfg.Hue.Timeout = Duration(30 * time.Second)
	}
	if cfg.Hue.RateLimitRPS == 0 {
		cfg.Hue.RateLimitRPS = 10.0 // 10 requests per second
	}
	if cfg.Hue.GroupRateLimitRPS == 0 {
		cfg.Hue.GroupRateLimitRPS = 1.0
	}

	// Ledger defaults
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "./huemcp.sqlite"
	}
	if cfg.Ledger.CleanupInterval == 0 {
		cfg.Ledger.CleanupInterval = Duration(24 * time.Hour)
	}
	if cfg.Ledger.RetentionDays == 0 {
		cfg.Ledger.RetentionDays = 30
	}

	// Healthcheck defaults
	if cfg.Healthcheck.Port == 0 {
		cfg.Healthcheck.Port = 9090
	}
	if cfg.Healthcheck.Host == "" {
		cfg.Healthcheck.Host = "127.0.0.1"
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// Validate reports settings the server cannot start without
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Hue.Bridge == "" {
		errs = append(errs, fmt.Errorf("hue.bridge is required (or set %s)", EnvBridge))
	}
	if cfg.Hue.Token == "" {
		errs = append(errs, fmt.Errorf("hue.token is required (or set %s)", EnvToken))
	}
	if cfg.Hue.Timeout < 0 {
		errs = append(errs, errors.New("hue.timeout must not be negative"))
	}
	if cfg.Ledger.CleanupInterval <= 0 {
		errs = append(errs, errors.New("ledger.cleanup_interval must be positive"))
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown_timeout must not be negative"))
	}
	if cfg.Ledger.RetentionDays < 0 {
		errs = append(errs, errors.New("ledger.retention_days must not be negative"))
	}
	return errors.Join(errs...)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
