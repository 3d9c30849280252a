// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.cmr-mcp/config.yaml or ./config.yaml)
//  3. Default values
//
// Security: sensitive data (tokens, passwords) is never logged; secrets are
// masked in MarshalJSON. Validation happens in Load (fail-fast).
//
// Error Handling: sentinel errors for Go-idiomatic checking with errors.Is(),
// wrapped with context using fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidEndpoint indicates a CMR or URS endpoint URL is invalid.
	ErrInvalidEndpoint = errors.New("invalid endpoint URL")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid request timeout")

	// ErrInvalidRate indicates the request rate limit is out of range.
	ErrInvalidRate = errors.New("invalid request rate")

	// ErrInvalidPageSize indicates a search page size is out of range.
	ErrInvalidPageSize = errors.New("invalid page size")
)

const (
	// DefaultCMREndpoint is the production CMR search API.
	DefaultCMREndpoint = "https://cmr.earthdata.nasa.gov/search"

	// DefaultURSEndpoint is the production Earthdata Login (URS) API.
	DefaultURSEndpoint = "https://urs.earthdata.nasa.gov"

	// DefaultCollectionPageSize caps collection search results per call.
	DefaultCollectionPageSize = 5

	// DefaultGranulePageSize caps granule search results per call.
	DefaultGranulePageSize = 20

	// MaxPageSize is the hard ceiling CMR accepts for page_size.
	MaxPageSize = 2000
)

// TracingConfig holds optional OTLP tracing configuration.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	Environment string `mapstructure:"environment" json:"environment"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (tokens, passwords), update MarshalJSON.
type Config struct {
	// CMR catalog configuration
	CMREndpoint string `mapstructure:"cmr_endpoint" json:"cmr_endpoint"`
	URSEndpoint string `mapstructure:"urs_endpoint" json:"urs_endpoint"`

	// Earthdata Login credentials (all optional; token takes precedence)
	EarthdataToken    string `mapstructure:"earthdata_token" json:"earthdata_token"`       // SENSITIVE: masked in MarshalJSON
	EarthdataUser     string `mapstructure:"earthdata_username" json:"earthdata_username"` //nolint:lll
	EarthdataPassword string `mapstructure:"earthdata_password" json:"earthdata_password"` // SENSITIVE: masked in MarshalJSON

	// HTTP client behavior
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" json:"request_timeout_seconds"`
	RequestsPerSecond     float64 `mapstructure:"requests_per_second" json:"requests_per_second"`

	// Search result caps
	CollectionPageSize int `mapstructure:"collection_page_size" json:"collection_page_size"`
	GranulePageSize    int `mapstructure:"granule_page_size" json:"granule_page_size"`

	// Download defaults
	DownloadDir string `mapstructure:"download_dir" json:"download_dir"`

	// Observability configuration
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`
}

// RequestTimeout returns the configured HTTP request timeout as a Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".cmr-mcp")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("cmr_endpoint", DefaultCMREndpoint)
	v.SetDefault("urs_endpoint", DefaultURSEndpoint)

	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("requests_per_second", 5.0)

	v.SetDefault("collection_page_size", DefaultCollectionPageSize)
	v.SetDefault("granule_page_size", DefaultGranulePageSize)

	v.SetDefault("download_dir", "./downloads")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.environment", "dev")
	v.SetDefault("tracing.service_name", "cmr-mcp")
}

// bindEnvVariables binds environment variables explicitly.
// EARTHDATA_* follow the earthaccess/Earthdata Login convention so existing
// credentials keep working unchanged.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("earthdata_token", "EARTHDATA_TOKEN")
	mustBind("earthdata_username", "EARTHDATA_USERNAME")
	mustBind("earthdata_password", "EARTHDATA_PASSWORD")

	mustBind("cmr_endpoint", "CMR_MCP_ENDPOINT")
	mustBind("urs_endpoint", "CMR_MCP_URS_ENDPOINT")
	mustBind("download_dir", "CMR_MCP_DOWNLOAD_DIR")
	mustBind("tracing.enabled", "CMR_MCP_TRACING")
}

// Validate performs range checks on the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	for _, endpoint := range []string{c.CMREndpoint, c.URSEndpoint} {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
		}
	}

	if c.RequestTimeoutSeconds <= 0 || c.RequestTimeoutSeconds > 600 {
		return fmt.Errorf("%w: %d seconds (must be 1-600)", ErrInvalidTimeout, c.RequestTimeoutSeconds)
	}

	if c.RequestsPerSecond <= 0 || c.RequestsPerSecond > 100 {
		return fmt.Errorf("%w: %g per second (must be >0 and <=100)", ErrInvalidRate, c.RequestsPerSecond)
	}

	if c.CollectionPageSize <= 0 || c.CollectionPageSize > MaxPageSize {
		return fmt.Errorf("%w: collection_page_size %d (must be 1-%d)", ErrInvalidPageSize, c.CollectionPageSize, MaxPageSize)
	}

	if c.GranulePageSize <= 0 || c.GranulePageSize > MaxPageSize {
		return fmt.Errorf("%w: granule_page_size %d (must be 1-%d)", ErrInvalidPageSize, c.GranulePageSize, MaxPageSize)
	}

	return nil
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// MarshalJSON masks sensitive fields so the config can be logged safely.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config // avoid recursion
	masked := alias(c)
	if masked.EarthdataToken != "" {
		masked.EarthdataToken = maskedValue
	}
	if masked.EarthdataPassword != "" {
		masked.EarthdataPassword = maskedValue
	}
	return json.Marshal(masked)
}
