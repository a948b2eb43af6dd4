// Package site runs a blog build: posts are loaded, permalinks resolved,
// categories indexed, pages and feeds rendered in memory and only then
// written out.
package site

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/journal"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/storage"
)

// Builder runs builds for one configuration. A Builder may run any number of
// builds, one at a time.
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	recorder  metrics.Recorder
	store     storage.OutputStore
	journal   journal.Store
	publisher notify.Publisher
	dryRun    bool
}

// NewBuilder creates a builder for cfg. cfg must already be validated.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
}

// WithLogger sets the logger used by every stage.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithRecorder attaches a metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithOutputStore replaces the output directory as the destination of
// rendered files. The store is used for a single build.
func (b *Builder) WithOutputStore(s storage.OutputStore) *Builder {
	b.store = s
	return b
}

// WithJournal records builds in s instead of the journal.path database. The
// caller keeps ownership of s.
func (b *Builder) WithJournal(s journal.Store) *Builder {
	b.journal = s
	return b
}

// WithPublisher announces builds through p instead of notify.nats_url. The
// caller keeps ownership of p.
func (b *Builder) WithPublisher(p notify.Publisher) *Builder {
	b.publisher = p
	return b
}

// WithDryRun renders into memory only. Neither the journal nor the publisher
// is used and no report is persisted.
func (b *Builder) WithDryRun(dryRun bool) *Builder {
	b.dryRun = dryRun
	return b
}

func (b *Builder) journalEnabled() bool {
	return !b.dryRun && (b.journal != nil || b.cfg.Journal.Path != "")
}

func (b *Builder) notifyEnabled() bool {
	return !b.dryRun && (b.publisher != nil || b.cfg.Notify.NATSURL != "")
}

// Build runs the full pipeline. The report is returned even when the build
// fails; the error is the *StageError that stopped it.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	bs := newBuildState(b, uuid.NewString())
	report := bs.Report
	report.DryRun = b.dryRun
	bs.logger.Info("Starting blog build",
		slog.String("posts_dir", b.cfg.PostsDir),
		slog.String("output", b.cfg.Output.Directory),
		slog.Bool("dry_run", b.dryRun))

	stages := NewPipeline().
		Add(StagePrepare, stagePrepare).
		Add(StageLoadPosts, stageLoadPosts).
		Add(StageResolvePermalinks, stageResolvePermalinks).
		Add(StageIndexCategories, stageIndexCategories).
		Add(StageRenderPages, stageRenderPages).
		Add(StageRenderFeeds, stageRenderFeeds).
		Add(StageWriteOutput, stageWriteOutput).
		AddIf(b.cfg.Build.VerifyLinks, StageVerifyLinks, stageVerifyLinks).
		AddIf(b.journalEnabled(), StageJournal, stageJournal).
		AddIf(b.notifyEnabled(), StageNotify, stageNotify).
		Build()

	err := runStages(ctx, bs, stages)
	report.finish()
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(string(report.Outcome))

	if b.cfg.Output.Report != "" && !b.dryRun {
		if perr := report.Persist(b.cfg.Output.Report); perr != nil {
			bs.logger.Warn("Failed to persist build report", logfields.Path(b.cfg.Output.Report), logfields.Error(perr))
		}
	}

	if err != nil {
		bs.logger.Error("Blog build failed", slog.String("outcome", string(report.Outcome)), logfields.Error(err))
		return report, err
	}
	bs.logger.Info("Blog build finished",
		slog.String("outcome", string(report.Outcome)),
		logfields.Count(report.Files),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000))
	return report, nil
}

// Plan is the resolved state of a build: every published post with its
// permalink set, and the frozen category index.
type Plan struct {
	Posts  []*post.Post
	Drafts int
	Index  *category.Index
}

// Plan loads posts, resolves permalinks and indexes categories without
// rendering or writing anything.
func (b *Builder) Plan(ctx context.Context) (*Plan, error) {
	bs := newBuildState(b, uuid.NewString())
	stages := NewPipeline().
		Add(StagePrepare, stagePrepare).
		Add(StageLoadPosts, stageLoadPosts).
		Add(StageResolvePermalinks, stageResolvePermalinks).
		Add(StageIndexCategories, stageIndexCategories).
		Build()
	if err := runStages(ctx, bs, stages); err != nil {
		return nil, err
	}
	return &Plan{Posts: bs.Posts, Drafts: bs.Report.Drafts, Index: bs.Index}, nil
}
