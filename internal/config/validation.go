package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks the configuration for values the build cannot work with.
// Permalink template tokens are checked by the permalink resolver, which owns
// the token set.
func (c *Config) Validate() error {
	validator := newConfigurationValidator(c)
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateBlog(); err != nil {
		return err
	}
	if err := cv.validateBuild(); err != nil {
		return err
	}
	return cv.validateNotify()
}

func (cv *configurationValidator) validateSite() error {
	u, err := url.Parse(cv.config.SiteURL)
	if err != nil {
		return fmt.Errorf("invalid site_url %q: %w", cv.config.SiteURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("site_url must use http or https: %q", cv.config.SiteURL)
	}
	if u.Host == "" {
		return fmt.Errorf("site_url must include a host: %q", cv.config.SiteURL)
	}
	return nil
}

func (cv *configurationValidator) validateBlog() error {
	bp := cv.config.BlogPath
	if bp != "" && !strings.HasPrefix(bp, "/") {
		return fmt.Errorf("blog_path must be root-relative (start with /): %q", bp)
	}
	if strings.Contains(bp, "..") {
		return fmt.Errorf("blog_path must not contain '..': %q", bp)
	}
	if cv.config.AutoPermalinkEnabled && cv.config.AutoPermalink == "" {
		return errors.New("blog_auto_permalink is required when blog_auto_permalink_enabled is true")
	}
	if cv.config.PostsDir == "" {
		return errors.New("blog_posts_dir must not be empty")
	}
	if cv.config.FeedSize < 1 {
		return fmt.Errorf("blog_feed_size must be at least 1, got %d", cv.config.FeedSize)
	}
	if _, err := categoryPolicyNormalizer.NormalizeWithError(string(cv.config.CategoryPolicy)); err != nil {
		return fmt.Errorf("blog_category_policy: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	if cv.config.Output.Directory == "" {
		return errors.New("output.directory must not be empty")
	}
	if cv.config.Build.Workers < 1 {
		return fmt.Errorf("build.workers must be at least 1, got %d", cv.config.Build.Workers)
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	if cv.config.Notify.NATSURL == "" {
		return nil
	}
	if cv.config.Notify.Subject == "" {
		return errors.New("notify.subject is required when notify.nats_url is set")
	}
	if _, err := time.ParseDuration(cv.config.Notify.Timeout); err != nil {
		return fmt.Errorf("invalid notify.timeout %q: %w", cv.config.Notify.Timeout, err)
	}
	return nil
}

// NotifyTimeout returns the parsed notification timeout, falling back to the default.
func (c *Config) NotifyTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Notify.Timeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultNotifyTimeout)
	return d
}
