package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RelayURL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.False(t, cfg.SMTP.Configured())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeYAML(t, `
port: "9000"
owner_name: Zach
relay_url: https://formspree.io/f/movpkovj
smtp:
  username: me@example.com
  password: file-secret
  to: inbox@example.com
`)
	t.Setenv("SITE_OWNER_NAME", "Mohiuddin")
	t.Setenv("SITE_SMTP_PASSWORD", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "Mohiuddin", cfg.OwnerName)
	assert.Equal(t, "https://formspree.io/f/movpkovj", cfg.RelayURL)
	assert.Equal(t, "me@example.com", cfg.SMTP.Username)
	assert.Equal(t, "env-secret", cfg.SMTP.Password)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, "smtp.gmail.com:587", cfg.SMTP.Addr())
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("TO_EMAIL", "inbox@example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.SMTP.Configured())

	t.Setenv("SITE_PORT", "3001")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port, "SITE_ variables win over legacy names")
}

func TestLoadTrustedProxies(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies)

	t.Setenv("SITE_TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeYAML(t, "port: [unterminated"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "smtp.host", EnvKey("SITE_SMTP_HOST"))
	assert.Equal(t, "owner_name", EnvKey("SITE_OWNER_NAME"))
	assert.Equal(t, "log_dev", EnvKey("SITE_LOG_DEV"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port not a number", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"gin mode", func(c *Config) { c.GinMode = "prod" }, "invalid gin_mode"},
		{"relay scheme", func(c *Config) { c.RelayURL = "ftp://example.com/f" }, "scheme must be http or https"},
		{"relay relative", func(c *Config) { c.RelayURL = "relay" }, "must be absolute or start with /"},
		{"relay absolute", func(c *Config) { c.RelayURL = "https://formspree.io/f/x" }, ""},
		{"trusted proxy cidr", func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "::1"} }, ""},
		{"trusted proxy garbage", func(c *Config) { c.TrustedProxies = []string{"proxy.local"} }, "invalid trusted_proxies entry"},
		{"smtp port", func(c *Config) {
			c.SMTP = SMTP{Host: "mail", Port: "smtp", Username: "u", Password: "p", To: "t"}
		}, "invalid smtp.port"},
		{"smtp host", func(c *Config) {
			c.SMTP = SMTP{Port: "25", Username: "u", Password: "p", To: "t"}
		}, "smtp.host is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
