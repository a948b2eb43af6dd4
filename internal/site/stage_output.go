package site

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"

	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/storage"
)

// stageWriteOutput checks that no two rendered files share a path and then
// writes them all. It is the first stage that touches the output directory.
func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	if err := checkOutputPaths(bs.Pages); err != nil {
		return newFatalStageError(StageWriteOutput, err)
	}

	store, err := bs.openStore()
	if err != nil {
		return newFatalStageError(StageWriteOutput,
			ferrors.WrapError(err, ferrors.CategoryFileSystem, "prepare output directory").
				WithContext("dir", bs.cfg.Output.Directory).
				Fatal().
				Build())
	}
	bs.Store = store

	for _, page := range bs.Pages {
		if err := store.Put(ctx, page.Path, page.Content); err != nil {
			return stageFailure(ctx, StageWriteOutput,
				ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
					WithContext("path", page.Path).
					Fatal().
					Build())
		}
	}

	bs.Report.Files = len(store.Entries())
	bs.recorder.AddFilesWritten(bs.Report.Files)
	bs.logger.Info("Wrote output", logfields.Count(bs.Report.Files), logfields.Path(bs.cfg.Output.Directory))
	return nil
}

func (bs *BuildState) openStore() (storage.OutputStore, error) {
	switch {
	case bs.builder.store != nil:
		return bs.builder.store, nil
	case bs.builder.dryRun:
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFSStore(bs.cfg.Output.Directory, bs.cfg.Output.Clean)
	}
}

// checkOutputPaths rejects two pages that would be written to the same file,
// for example two posts with the same explicit permalink.
func checkOutputPaths(pages []render.Page) error {
	seen := make(map[string]render.Page, len(pages))
	for _, page := range pages {
		clean, err := storage.CleanPath(page.Path)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryPermalink, "invalid output path").
				WithContext("path", page.Path).
				WithContext("kind", string(page.Kind)).
				Fatal().
				Build()
		}
		if prev, dup := seen[clean]; dup {
			return ferrors.WrapError(storage.ErrDuplicatePath, ferrors.CategoryPermalink, "two pages share an output path").
				WithContext("path", clean).
				WithContext("kinds", fmt.Sprintf("%s,%s", prev.Kind, page.Kind)).
				Fatal().
				Build()
		}
		seen[clean] = page
	}
	return nil
}

// stageVerifyLinks audits the written files. Findings are a warning unless
// build.strict_links is set.
func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	entries := bs.Store.Entries()
	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.Path
	}

	v := linkverify.NewVerifier(bs.cfg.BlogPath, bs.logger)
	report, err := v.Verify(ctx, files, bs.Store.Open)
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyLinks, ctx.Err())
		}
		return newWarnStageError(StageVerifyLinks,
			ferrors.WrapError(err, ferrors.CategoryLinks, "verify links").Warning().Build())
	}
	bs.LinkReport = report
	bs.Report.LinkIssues = len(report.Issues)
	if len(report.Issues) == 0 {
		bs.logger.Debug("Links verified", logfields.Count(report.LinksChecked))
		return nil
	}

	byReason := make(map[linkverify.Reason]int)
	for _, issue := range report.Issues {
		byReason[issue.Reason]++
		bs.logger.Warn("Link issue",
			logfields.Path(issue.File),
			logfields.URL(issue.URL),
			slog.String("reason", string(issue.Reason)))
	}
	reasons := make([]string, 0, len(byReason))
	for reason, n := range byReason {
		bs.recorder.IncLinkIssues(string(reason), n)
		reasons = append(reasons, string(reason))
	}
	slices.Sort(reasons)

	b := ferrors.NewError(ferrors.CategoryLinks, fmt.Sprintf("%d link issue(s) in output", len(report.Issues))).
		WithContext("reasons", strings.Join(reasons, ","))
	if bs.cfg.Build.StrictLinks {
		return newFatalStageError(StageVerifyLinks, b.Fatal().Build())
	}
	return newWarnStageError(StageVerifyLinks, b.Warning().Build())
}
