package commands

import (
	"context"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/preview"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SiteFlags `embed:""`
	Addr      string `name:"addr" default:"127.0.0.1:4000" help:"Listen address"`
	Watch     bool   `short:"w" help:"Rebuild when posts change"`
	NoBuild   bool   `name:"no-build" help:"Serve the existing output without an initial build"`
}

func (s *ServeCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, s.overrides())
	if err != nil {
		return err
	}
	logger := g.logger()
	builder := site.NewBuilder(cfg).WithLogger(logger)

	opts := preview.Options{
		Addr:      s.Addr,
		OutputDir: cfg.Output.Directory,
		Watch:     s.Watch,
		WatchDirs: []string{cfg.PostsDir},
		Logger:    logger,
		Build: func(ctx context.Context) error {
			_, err := builder.Build(ctx)
			return err
		},
	}
	if cfg.Monitoring.Metrics.Enabled {
		reg := metrics.NewRegistry()
		builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
		opts.MetricsPath = cfg.Monitoring.Metrics.Path
		opts.MetricsHandler = metrics.HTTPHandler(reg)
	}

	server, err := preview.New(opts)
	if err != nil {
		return err
	}
	if !s.NoBuild {
		buildErr := opts.Build(ctx)
		if buildErr != nil {
			logger.Error("Initial build failed", logfields.Error(buildErr))
		}
		server.RecordBuild(buildErr)
	}
	return server.Run(ctx)
}
