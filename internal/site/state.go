package site

import (
	"log/slog"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/journal"
	"git.home.luguber.info/inful/blogbuilder/internal/linkverify"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/permalink"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
	"git.home.luguber.info/inful/blogbuilder/internal/storage"
)

// BuildState carries the data handed from one stage to the next.
type BuildState struct {
	builder  *Builder
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder

	BuildID string
	Report  *BuildReport

	resolver *permalink.Resolver
	renderer *render.Renderer

	// Posts is indexed by post ID.
	Posts []*post.Post
	Index *category.Index
	Pages []render.Page
	Store storage.OutputStore

	LinkReport linkverify.Report
	Moves      []journal.Move
}

func newBuildState(b *Builder, buildID string) *BuildState {
	return &BuildState{
		builder:  b,
		cfg:      b.cfg,
		logger:   b.logger.With(logfields.BuildID(buildID)),
		recorder: b.recorder,
		BuildID:  buildID,
		Report:   newBuildReport(buildID),
	}
}
