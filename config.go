package webtrack

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint     = "http://localhost:4000/api/v1/tracking/collect"
	DefaultTimeout      = 5 * time.Second
	DefaultCookiePrefix = "webtrack"
)

// Config holds everything a Tracker needs. APIKey is required; the rest
// falls back to the defaults above.
type Config struct {
	APIKey       string
	Endpoint     string
	Timeout      time.Duration
	Debug        bool
	CookiePrefix string
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CookiePrefix == "" {
		c.CookiePrefix = DefaultCookiePrefix
	}
}

// ConfigFromEnv builds a Config from WEBTRACK_* environment variables.
// Unset variables leave the corresponding field at its default.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:       os.Getenv("WEBTRACK_API_KEY"),
		Endpoint:     os.Getenv("WEBTRACK_ENDPOINT"),
		CookiePrefix: os.Getenv("WEBTRACK_COOKIE_PREFIX"),
	}
	if s := os.Getenv("WEBTRACK_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	if s := os.Getenv("WEBTRACK_DEBUG"); s != "" {
		cfg.Debug, _ = strconv.ParseBool(s)
	}
	return cfg
}

type fileConfig struct {
	APIKey         string `yaml:"api_key"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Debug          bool   `yaml:"debug"`
	CookiePrefix   string `yaml:"cookie_prefix"`
}

// LoadConfigFile reads tracker configuration from a YAML file.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Config{
		APIKey:       fc.APIKey,
		Endpoint:     fc.Endpoint,
		Debug:        fc.Debug,
		CookiePrefix: fc.CookiePrefix,
	}
	if fc.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	return cfg, nil
}
