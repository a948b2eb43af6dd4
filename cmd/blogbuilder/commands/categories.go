package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// CategoriesCmd implements the 'categories' command.
type CategoriesCmd struct {
	SiteFlags `embed:""`
}

func (c *CategoriesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, c.overrides())
	if err != nil {
		return err
	}
	plan, err := site.NewBuilder(cfg).WithLogger(g.logger()).Plan(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SLUG\tNAME\tPOSTS\tURL")
	for _, cat := range plan.Index.Categories() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", cat.Slug, cat.Name, len(cat.PostIDs), plan.Index.URL(cat.Slug))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, col := range plan.Index.Collisions() {
		_, _ = fmt.Fprintf(g.out(), "merged %q into %q (slug %s)\n", col.Dropped, col.Kept, col.Slug)
	}
	return nil
}
