package commands

import (
	"context"
	"fmt"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	SiteFlags `embed:""`
}

func (v *VerifyCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, v.overrides())
	if err != nil {
		return err
	}
	report, err := linkverify.NewVerifier(cfg.BlogPath, g.logger()).VerifyDir(ctx, cfg.Output.Directory)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read output directory").
			WithContext("dir", cfg.Output.Directory).
			Build()
	}
	for _, issue := range report.Issues {
		_, _ = fmt.Fprintln(g.out(), issue.String())
	}
	_, _ = fmt.Fprintf(g.out(), "files=%d links=%d issues=%d\n", report.FilesChecked, report.LinksChecked, len(report.Issues))
	if len(report.Issues) > 0 {
		return ferrors.NewError(ferrors.CategoryLinks, fmt.Sprintf("%d link issue(s) found", len(report.Issues))).
			WithContext("dir", cfg.Output.Directory).
			Build()
	}
	return nil
}
