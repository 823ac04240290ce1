// Package config loads the site server configuration from .env, an optional
// YAML file and SITE_* environment variables, in that order.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SITE_"

// SMTP holds the mail relay credentials used by POST /relay.
type SMTP struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	To       string `koanf:"to"`
}

// Configured reports whether mail can be sent at all.
func (s SMTP) Configured() bool {
	return s.Username != "" && s.Password != "" && s.To != ""
}

// Addr is host:port.
func (s SMTP) Addr() string {
	return s.Host + ":" + s.Port
}

type Config struct {
	Port    string `koanf:"port"`
	GinMode string `koanf:"gin_mode"`

	// Empty directories mean the assets embedded in the binary.
	TemplatesDir string `koanf:"templates_dir"`
	StaticDir    string `koanf:"static_dir"`
	ImagesDir    string `koanf:"images_dir"`

	// OwnerName and RelayURL are rendered onto <body> for the wasm client.
	// An empty RelayURL leaves the client on its hosted default; "/relay"
	// routes messages through this server's SMTP relay.
	OwnerName string `koanf:"owner_name"`
	RelayURL  string `koanf:"relay_url"`

	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the TCP peer is the client.
	TrustedProxies []string `koanf:"trusted_proxies"`

	LogLevel string `koanf:"log_level"`
	LogDev   bool   `koanf:"log_dev"`

	SMTP SMTP `koanf:"smtp"`
}

func Default() *Config {
	return &Config{
		Port:      "8080",
		GinMode:   "release",
		ImagesDir: "./images",
		LogLevel:  "info",
		SMTP: SMTP{
			Host: "smtp.gmail.com",
			Port: "587",
		},
	}
}

// legacyEnv maps the variable names earlier deployments used.
var legacyEnv = map[string]string{
	"PORT":      "port",
	"GIN_MODE":  "gin_mode",
	"SMTP_HOST": "smtp.host",
	"SMTP_PORT": "smtp.port",
	"SMTP_USER": "smtp.username",
	"SMTP_PASS": "smtp.password",
	"TO_EMAIL":  "smtp.to",
}

// Load reads .env from the working directory if present, then path if it
// exists, then the environment. Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		return legacyEnv[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env: %w", err)
	}

	// SITE_SMTP_HOST -> smtp.host, SITE_OWNER_NAME -> owner_name.
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// EnvKey turns a SITE_* variable name into a config key.
func EnvKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if rest, ok := strings.CutPrefix(key, "smtp_"); ok {
		return "smtp." + rest
	}
	return key
}

// envValue splits list-valued variables on commas.
func envValue(name, value string) (string, interface{}) {
	key := EnvKey(name)
	if key == "trusted_proxies" {
		var list []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return key, list
	}
	return key, value
}

var validGinModes = map[string]bool{
	"debug":   true,
	"release": true,
	"test":    true,
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q: must be 1-65535", c.Port)
	}

	if c.GinMode != "" && !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid gin_mode %q: must be one of debug, release, test", c.GinMode)
	}

	if c.RelayURL != "" {
		u, err := url.Parse(c.RelayURL)
		if err != nil {
			return fmt.Errorf("invalid relay_url %q: %w", c.RelayURL, err)
		}
		if u.IsAbs() && u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid relay_url %q: scheme must be http or https", c.RelayURL)
		}
		if !u.IsAbs() && !strings.HasPrefix(u.Path, "/") {
			return fmt.Errorf("invalid relay_url %q: must be absolute or start with /", c.RelayURL)
		}
	}

	for _, p := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(p); err == nil {
			continue
		}
		if net.ParseIP(p) == nil {
			return fmt.Errorf("invalid trusted_proxies entry %q: must be an IP or CIDR", p)
		}
	}

	if c.SMTP.Configured() {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when smtp credentials are set")
		}
		if _, err := strconv.Atoi(c.SMTP.Port); err != nil {
			return fmt.Errorf("invalid smtp.port %q", c.SMTP.Port)
		}
	}
	return nil
}
