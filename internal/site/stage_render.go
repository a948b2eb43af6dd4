package site

import (
	"context"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// stageRenderPages renders permapages in parallel, then the category pages
// and the blog index. Pages keep post order, then category slug order.
func stageRenderPages(ctx context.Context, bs *BuildState) error {
	permapages := make([]render.Page, len(bs.Posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.workers())
	for i, p := range bs.Posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := bs.renderer.Permapage(p, bs.Index)
			if err != nil {
				return renderError(err).WithContext("source", p.SourcePath).Build()
			}
			permapages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stageFailure(ctx, StageRenderPages, err)
	}

	pages := permapages
	for _, c := range bs.Index.Categories() {
		page, err := bs.renderer.CategoryPage(c, bs.Posts, bs.Index)
		if err != nil {
			return newFatalStageError(StageRenderPages, renderError(err).WithContext("slug", c.Slug).Build())
		}
		pages = append(pages, page)
	}
	index, err := bs.renderer.Index(bs.Posts, bs.Index)
	if err != nil {
		return newFatalStageError(StageRenderPages, renderError(err).Build())
	}
	pages = append(pages, index)

	bs.Pages = append(bs.Pages, pages...)
	bs.Report.Pages = len(pages)
	bs.logger.Debug("Rendered pages", logfields.Count(len(pages)))
	return nil
}

// stageRenderFeeds renders the blog feed and one feed per category.
func stageRenderFeeds(_ context.Context, bs *BuildState) error {
	feed, err := bs.renderer.Feed(bs.Posts, bs.Index)
	if err != nil {
		return newFatalStageError(StageRenderFeeds, renderError(err).Build())
	}
	feeds := []render.Page{feed}
	for _, c := range bs.Index.Categories() {
		f, err := bs.renderer.CategoryFeed(c, bs.Posts, bs.Index)
		if err != nil {
			return newFatalStageError(StageRenderFeeds, renderError(err).WithContext("slug", c.Slug).Build())
		}
		feeds = append(feeds, f)
	}
	bs.Pages = append(bs.Pages, feeds...)
	bs.Report.Feeds = len(feeds)
	bs.logger.Debug("Rendered feeds", logfields.Count(len(feeds)))
	return nil
}

func renderError(err error) *ferrors.ErrorBuilder {
	return ferrors.WrapError(err, ferrors.CategoryRender, "render output").Fatal()
}
