package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteFlags   `embed:""`
	DryRun      bool `name:"dry-run" help:"Render everything in memory without writing output"`
	StrictLinks bool `name:"strict-links" help:"Fail the build on link verification findings"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	overrides := b.overrides()
	if b.StrictLinks {
		overrides["build"] = map[string]any{"strict_links": true}
	}
	cfg, err := loadConfig(root.Config, overrides)
	if err != nil {
		return err
	}

	report, err := site.NewBuilder(cfg).
		WithLogger(g.logger()).
		WithDryRun(b.DryRun).
		Build(ctx)
	if report != nil {
		_, _ = fmt.Fprintln(g.out(), report.Summary())
	}
	return err
}
