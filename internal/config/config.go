package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	defaultTimeout   = 10 * time.Second
	defaultCacheTTL  = 24 * time.Hour
	defaultRetention = 30 * 24 * time.Hour
)

type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	TTL       string `yaml:"ttl"`
	Retention string `yaml:"retention"`
}

type Config struct {
	BaseURL   string      `yaml:"base_url"`
	Timeout   string      `yaml:"timeout"`
	UserAgent string      `yaml:"user_agent,omitempty"`
	Debug     bool        `yaml:"debug"`
	LogFile   string      `yaml:"log_file,omitempty"`
	Cache     CacheConfig `yaml:"cache"`
}

// TimeoutDuration returns the per-request timeout, defaulting to 10s.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

func (c *Config) CacheTTL() time.Duration {
	d, err := ParseDuration(c.Cache.TTL)
	if err != nil {
		return defaultCacheTTL
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	d, err := ParseDuration(c.Cache.Retention)
	if err != nil {
		return defaultRetention
	}
	return d
}

// LogPath returns the configured log file with a leading ~ expanded.
func (c *Config) LogPath() string {
	p := c.LogFile
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// ParseDuration accepts Go duration syntax plus an "Nd" day suffix.
// Negative durations are rejected.
func ParseDuration(s string) (time.Duration, error) {
	var d time.Duration
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		d = time.Duration(days) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, err
		}
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "caniuse", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "caniuse", "caniuse.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), layering it over
// the embedded defaults and then over the CANIUSE_* environment.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults still apply.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CANIUSE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if DebugEnv() {
		cfg.Debug = true
	}
}

// DebugEnv reports whether CANIUSE_DEBUG asks for verbose logging.
func DebugEnv() bool {
	switch strings.ToLower(os.Getenv("CANIUSE_DEBUG")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
	}
	for name, v := range map[string]string{
		"timeout":         cfg.Timeout,
		"cache.ttl":       cfg.Cache.TTL,
		"cache.retention": cfg.Cache.Retention,
	} {
		if v == "" {
			continue
		}
		if _, err := ParseDuration(v); err != nil {
			return fmt.Errorf("%s: invalid duration %q", name, v)
		}
	}
	if cfg.Timeout != "" {
		if d, _ := ParseDuration(cfg.Timeout); d == 0 {
			return fmt.Errorf("timeout: must be greater than zero, got %q", cfg.Timeout)
		}
	}
	return nil
}
