package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the site configuration for one build. It is loaded once, may be
// adjusted with ApplyOverrides before the build starts, and is read-only while
// the build runs. Components receive it by pointer; nothing mutates it.
type Config struct {
	SiteURL         string `yaml:"site_url"`
	SiteTitle       string `yaml:"site_title"`
	SiteDescription string `yaml:"site_description,omitempty"`

	// BlogPath is the root-relative prefix of the blog. Its case is preserved
	// everywhere it is emitted.
	BlogPath             string         `yaml:"blog_path"`
	AutoPermalinkEnabled bool           `yaml:"blog_auto_permalink_enabled"`
	AutoPermalink        string         `yaml:"blog_auto_permalink"`
	PostsDir             string         `yaml:"blog_posts_dir"`
	FeedSize             int            `yaml:"blog_feed_size"`
	CategoryPolicy       CategoryPolicy `yaml:"blog_category_policy"`

	Output     OutputConfig     `yaml:"output"`
	Build      BuildConfig      `yaml:"build"`
	Journal    JournalConfig    `yaml:"journal,omitempty"`
	Notify     NotifyConfig     `yaml:"notify,omitempty"`
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty"`
}

// OutputConfig controls where rendered files are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`            // remove the output directory before writing
	Report    string `yaml:"report,omitempty"` // optional path for a JSON build report
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	Workers     int  `yaml:"workers"`
	VerifyLinks bool `yaml:"verify_links"`
	StrictLinks bool `yaml:"strict_links"` // link audit findings fail the build
}

// JournalConfig enables the SQLite build journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig enables a NATS message after each successful build when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// MonitoringConfig represents metrics configuration for the serve command.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
}

// MonitoringMetrics represents metrics endpoint configuration.
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a configuration file, applying defaults for every key the file
// omits. Environment variables from .env/.env.local are loaded first and
// ${VAR} references in the file are expanded.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	// #nosec G304 -- configPath is supplied by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML configuration on top of Defaults, normalizes and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// normalize canonicalizes values without changing their meaning: trailing
// slashes are trimmed from site_url and blog_path, enum spellings are folded.
// Case inside blog_path is never changed.
func (c *Config) normalize() {
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	c.BlogPath = strings.TrimRight(strings.TrimSpace(c.BlogPath), "/")
	c.AutoPermalink = strings.TrimSpace(c.AutoPermalink)
	if p, err := categoryPolicyNormalizer.NormalizeWithError(string(c.CategoryPolicy)); err == nil {
		c.CategoryPolicy = p
	}
	if c.Monitoring.Metrics.Path == "" {
		c.Monitoring.Metrics.Path = "/metrics"
	}
}
