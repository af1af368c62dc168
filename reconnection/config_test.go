package reconnection

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "channel_type": "gewechat",
  "gewechat_base_url": "http://192.168.1.10:2531/v2/api",
  "gewechat_token": "abc",
  "gewechat_app_id": "wx_123",
  "reconnect_benign_codes": [500]
}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.10:2531/v2/api", cfg.BaseURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "wx_123", cfg.AppID)
	assert.Equal(t, []int{500}, cfg.BenignReconnectCodes)
	assert.Equal(t, []string{DefaultBenignMarker}, cfg.BenignReconnectMarkers)
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
gewechat_base_url: https://gewe.example.com/v2/api
gewechat_token: abc
gewechat_app_id: wx_123
reconnect_request_timeout: 5s
reconnect_fault_delay: 2m
reconnect_skip_self_test: true
reconnect_benign_markers:
  - 无需重连
  - already online
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.FaultDelay)
	assert.True(t, cfg.SkipSelfTest)
	assert.Equal(t, []string{"无需重连", "already online"}, cfg.BenignReconnectMarkers)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.json", `{"gewechat_base_url": "http://a:1/v2/api", "gewechat_token": "file", "gewechat_app_id": "wx_file"}`)
	t.Setenv("GEWECHAT_TOKEN", "env")
	t.Setenv("RECONNECT_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.Token)
	assert.Equal(t, "wx_file", cfg.AppID)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.yaml", "gewechat_base_url: [unterminated"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "partial.json", `{"gewechat_base_url": "http://a:1"}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GEWECHAT_BASE_URL", "http://gewe:2531/v2/api")
	t.Setenv("GEWECHAT_TOKEN", "tok")
	t.Setenv("GEWECHAT_APP_ID", "wx_env")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "wx_env", cfg.AppID)
	assert.Equal(t, defaultFaultDelay, cfg.FaultDelay)
}

func TestVerifyConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"no base url":     func(c *Config) { c.BaseURL = "" },
		"not http":        func(c *Config) { c.BaseURL = "ftp://gewe/v2" },
		"no host":         func(c *Config) { c.BaseURL = "http:///v2/api" },
		"no token":        func(c *Config) { c.Token = "" },
		"no app id":       func(c *Config) { c.AppID = "" },
		"zero timeout":    func(c *Config) { c.RequestTimeout = 0 },
		"negative fault":  func(c *Config) { c.FaultDelay = -time.Second },
		"stale too short": func(c *Config) { c.StaleAfter = 30 * time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(cfg)
			assert.ErrorIs(t, VerifyConfig(cfg), ErrInvalidConfig)
		})
	}

	assert.ErrorIs(t, VerifyConfig(nil), ErrInvalidConfig)
	assert.NoError(t, VerifyConfig(testConfig()))
}
