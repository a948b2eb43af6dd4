// Package commands implements the blogbuilder subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // user-facing output
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build      BuildCmd      `cmd:"" help:"Build the blog into the output directory"`
	Init       InitCmd       `cmd:"" help:"Write an example configuration file"`
	Permalinks PermalinksCmd `cmd:"" help:"Print the resolved permalink of every post without writing output"`
	Categories CategoriesCmd `cmd:"" help:"Print the category index without writing output"`
	Serve      ServeCmd      `cmd:"" help:"Serve the output directory, optionally rebuilding on change"`
	Verify     VerifyCmd     `cmd:"" help:"Check the links of an existing output directory"`
}

// AfterApply runs after flag parsing and installs the default logger. -v
// selects debug; otherwise BLOGBUILDER_LOG_LEVEL is used, falling back to info.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv("BLOGBUILDER_LOG_LEVEL")).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// SiteFlags override the locations of a configuration.
type SiteFlags struct {
	Posts  string `name:"posts" help:"Override blog_posts_dir"`
	Output string `short:"o" name:"output" help:"Override output.directory"`
}

func (f SiteFlags) overrides() map[string]any {
	o := map[string]any{}
	if f.Posts != "" {
		o["blog_posts_dir"] = f.Posts
	}
	if f.Output != "" {
		o["output"] = map[string]any{"directory": f.Output}
	}
	return o
}

// loadConfig loads the configuration file and applies overrides on top.
func loadConfig(path string, overrides map[string]any) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load configuration").
			WithContext("path", path).
			Fatal().
			Build()
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "apply command-line overrides").
			Fatal().
			Build()
	}
	return cfg, nil
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
