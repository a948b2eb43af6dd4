package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/permalink"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// PermalinksCmd implements the 'permalinks' command.
type PermalinksCmd struct {
	SiteFlags `embed:""`
	Format    string `enum:"table,json" default:"table" help:"Output format (table|json)"`
}

type permalinkRow struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

func (p *PermalinksCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, p.overrides())
	if err != nil {
		return err
	}
	plan, err := site.NewBuilder(cfg).WithLogger(g.logger()).Plan(ctx)
	if err != nil {
		return err
	}

	rows := make([]permalinkRow, 0, len(plan.Posts))
	for _, post := range plan.Posts {
		pl := permalink.Of(post)
		rows = append(rows, permalinkRow{
			Source: post.SourcePath,
			Kind:   string(pl.Kind()),
			Path:   pl.Path(),
			URL:    pl.Href(links.Absolute, cfg.SiteURL),
		})
	}

	if p.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SOURCE\tKIND\tURL")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Source, r.Kind, r.URL)
	}
	return tw.Flush()
}
