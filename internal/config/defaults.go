package config

// Default values mirror a freshly initialized blog.
const (
	DefaultSiteURL       = "http://www.example.com"
	DefaultSiteTitle     = "Your Blog's Name"
	DefaultBlogPath      = "/blog"
	DefaultAutoPermalink = ":blog_path/:year/:month/:day/:title"
	DefaultPostsDir      = "_posts"
	DefaultFeedSize      = 10
	DefaultOutputDir     = "_site"
	DefaultWorkers       = 4
	DefaultNotifySubject = "blogbuilder.builds"
	DefaultNotifyTimeout = "5s"
)

// Defaults returns a configuration populated with default values. Load
// decodes the config file on top of it, so keys the file omits keep these.
func Defaults() *Config {
	return &Config{
		SiteURL:              DefaultSiteURL,
		SiteTitle:            DefaultSiteTitle,
		BlogPath:             DefaultBlogPath,
		AutoPermalinkEnabled: true,
		AutoPermalink:        DefaultAutoPermalink,
		PostsDir:             DefaultPostsDir,
		FeedSize:             DefaultFeedSize,
		CategoryPolicy:       CategoryPolicyLenient,
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Clean:     true,
		},
		Build: BuildConfig{
			Workers:     DefaultWorkers,
			VerifyLinks: true,
		},
		Notify: NotifyConfig{
			Subject: DefaultNotifySubject,
			Timeout: DefaultNotifyTimeout,
		},
		Monitoring: MonitoringConfig{
			Metrics: MonitoringMetrics{Path: "/metrics"},
		},
	}
}
