package reconnection

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = time.Second
	defaultFaultDelay      = 60 * time.Second
	defaultStaleAfter      = 3 * time.Minute

	// DefaultBenignMarker is the gewechat message meaning "no reconnection necessary".
	DefaultBenignMarker = "无需重连"
)

// Config is the supervisor configuration. The yaml keys match the host's
// config.json, which yaml.v3 reads as well.
type Config struct {
	BaseURL string `yaml:"gewechat_base_url" env:"GEWECHAT_BASE_URL"`
	Token   string `yaml:"gewechat_token" env:"GEWECHAT_TOKEN"`
	AppID   string `yaml:"gewechat_app_id" env:"GEWECHAT_APP_ID"`

	// RequestTimeout bounds every check and reconnect call.
	RequestTimeout time.Duration `yaml:"reconnect_request_timeout" env:"RECONNECT_REQUEST_TIMEOUT"`
	// ShutdownTimeout bounds how long Shutdown waits for the loop to exit.
	ShutdownTimeout time.Duration `yaml:"reconnect_shutdown_timeout" env:"RECONNECT_SHUTDOWN_TIMEOUT"`
	// FaultDelay is the flat sleep after an unexpected loop fault.
	FaultDelay time.Duration `yaml:"reconnect_fault_delay" env:"RECONNECT_FAULT_DELAY"`
	// StaleAfter is how old the last tick may get before liveness fails.
	StaleAfter time.Duration `yaml:"reconnect_stale_after" env:"RECONNECT_STALE_AFTER"`
	// SkipSelfTest disables the startup reconnect call.
	SkipSelfTest bool `yaml:"reconnect_skip_self_test" env:"RECONNECT_SKIP_SELF_TEST"`

	// BenignReconnectMarkers are substrings of a reconnect error that mean the
	// session is already up.
	BenignReconnectMarkers []string `yaml:"reconnect_benign_markers"`
	// BenignReconnectCodes are gewechat ret codes with the same meaning.
	BenignReconnectCodes []int `yaml:"reconnect_benign_codes"`
}

// DefaultConfig returns a config with every optional field set.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:         defaultRequestTimeout,
		ShutdownTimeout:        defaultShutdownTimeout,
		FaultDelay:             defaultFaultDelay,
		StaleAfter:             defaultStaleAfter,
		BenignReconnectMarkers: []string{DefaultBenignMarker},
	}
}

// VerifyConfig reports the first problem in c.
func VerifyConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: gewechat_base_url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: gewechat_base_url %q is not an http(s) url", ErrInvalidConfig, c.BaseURL)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: gewechat_token is required", ErrInvalidConfig)
	}
	if c.AppID == "" {
		return fmt.Errorf("%w: gewechat_app_id is required", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 || c.FaultDelay <= 0 || c.StaleAfter <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.StaleAfter < checkPeriod {
		return fmt.Errorf("%w: reconnect_stale_after must be at least %s", ErrInvalidConfig, checkPeriod)
	}
	return nil
}

// LoadConfig reads path (YAML or JSON) over DefaultConfig, applies
// environment overrides and verifies the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromEnv builds a config from environment variables only.
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode env: %w", err)
	}
	return nil
}
