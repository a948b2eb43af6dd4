package site

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/permalink"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// stagePrepare validates the permalink template and parses page templates
// before any post is read.
func stagePrepare(_ context.Context, bs *BuildState) error {
	resolver, err := permalink.NewResolver(bs.cfg)
	if err != nil {
		return newFatalStageError(StagePrepare, classifyResolveError("", err))
	}
	renderer, err := render.New(bs.cfg)
	if err != nil {
		return newFatalStageError(StagePrepare,
			ferrors.WrapError(err, ferrors.CategoryRender, "parse page templates").Fatal().Build())
	}
	bs.resolver = resolver
	bs.renderer = renderer
	return nil
}

func stageLoadPosts(ctx context.Context, bs *BuildState) error {
	loader := post.NewLoader(bs.cfg.PostsDir, markdown.NewRenderer(), bs.logger)
	res, err := loader.Load(ctx)
	if err != nil {
		return stageFailure(ctx, StageLoadPosts,
			ferrors.WrapError(err, ferrors.CategoryContent, "load posts").
				WithContext("dir", bs.cfg.PostsDir).
				Fatal().
				Build())
	}
	bs.Posts = res.Posts
	bs.Report.Posts = len(res.Posts)
	bs.Report.Drafts = res.Drafts
	bs.recorder.SetPosts(len(res.Posts))
	bs.logger.Info("Loaded posts", logfields.Count(len(res.Posts)), slog.Int("drafts", res.Drafts))
	return nil
}

// stageResolvePermalinks resolves every post in parallel. The first failure
// cancels the remaining work.
func stageResolvePermalinks(ctx context.Context, bs *BuildState) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.workers())
	for _, p := range bs.Posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pl, err := bs.resolver.ResolveAndSet(p)
			if err != nil {
				return classifyResolveError(p.SourcePath, err)
			}
			bs.logger.Debug("Resolved permalink",
				logfields.Post(p.SourcePath),
				logfields.Permalink(pl.Href(links.Relative, bs.cfg.SiteURL)),
				slog.String("kind", string(pl.Kind())))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stageFailure(ctx, StageResolvePermalinks, err)
	}
	return nil
}

// stageIndexCategories registers every post's categories in parallel, then
// freezes the index. Nothing reads the index before Freeze returns.
func stageIndexCategories(ctx context.Context, bs *BuildState) error {
	cb := category.NewBuilder(bs.cfg.BlogPath, bs.cfg.CategoryPolicy, bs.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.workers())
	for _, p := range bs.Posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := cb.Register(p.ID, p.Categories); err != nil {
				return classifyCategoryError(p.SourcePath, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stageFailure(ctx, StageIndexCategories, err)
	}

	bs.Index = cb.Freeze()
	collisions := len(bs.Index.Collisions())
	bs.Report.Categories = bs.Index.Len()
	bs.Report.Collisions = collisions
	bs.recorder.SetCategories(bs.Index.Len())
	if collisions > 0 {
		bs.recorder.IncCategoryCollisions(collisions)
	}
	bs.logger.Info("Indexed categories", logfields.Count(bs.Index.Len()), slog.Int("collisions", collisions))
	return nil
}

func (bs *BuildState) workers() int {
	if bs.cfg.Build.Workers < 1 {
		return 1
	}
	return bs.cfg.Build.Workers
}

func classifyResolveError(source string, err error) error {
	var unknown *permalink.UnknownTokenError
	var missing *permalink.NoPermalinkError
	var b *ferrors.ErrorBuilder
	switch {
	case errors.As(err, &unknown):
		b = ferrors.WrapError(err, ferrors.CategoryConfig, "invalid blog_auto_permalink").
			WithContext("token", unknown.Token).
			WithContext("template", unknown.Template)
	case errors.As(err, &missing):
		b = ferrors.WrapError(err, ferrors.CategoryPermalink, "post has no permalink")
	case errors.Is(err, post.ErrPermalinkAlreadySet):
		b = ferrors.WrapError(err, ferrors.CategoryInternal, "permalink resolved twice")
	default:
		b = ferrors.WrapError(err, ferrors.CategoryPermalink, "resolve permalink")
	}
	if source != "" {
		b = b.WithContext("source", source)
	}
	return b.Fatal().Build()
}

func classifyCategoryError(source string, err error) error {
	b := ferrors.WrapError(err, ferrors.CategoryTaxonomy, "index categories").WithContext("source", source)
	var ambiguous *category.AmbiguousCategorySlugError
	if errors.As(err, &ambiguous) {
		b = ferrors.WrapError(err, ferrors.CategoryTaxonomy, "ambiguous category slug").
			WithContext("source", source).
			WithContext("slug", ambiguous.Slug)
	}
	return b.Fatal().Build()
}
