package site

import (
	"context"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"

	"git.home.luguber.info/inful/blogbuilder/internal/journal"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/permalink"
)

// stageJournal compares this build's permalinks with the previous journaled
// build, warns about moved URLs and records the build. Journal failures never
// fail the build.
func stageJournal(ctx context.Context, bs *BuildState) error {
	store := bs.builder.journal
	if store == nil {
		s, err := journal.NewSQLiteStore(bs.cfg.Journal.Path)
		if err != nil {
			return journalWarning(err, "open journal")
		}
		defer func() {
			if err := s.Close(); err != nil {
				bs.logger.Warn("Failed to close journal", logfields.Error(err))
			}
		}()
		store = s
	}

	current := bs.journalEntries()
	prev, ok, err := store.Latest(ctx)
	if err != nil {
		return journalWarning(err, "read previous build")
	}
	if ok {
		previous, err := store.Entries(ctx, prev.ID)
		if err != nil {
			return journalWarning(err, "read previous entries")
		}
		moves, edited := journal.Diff(previous, current)
		for _, m := range moves {
			bs.logger.Warn("Permalink changed since previous build",
				logfields.Post(m.Source),
				slog.String("old_url", m.OldHref),
				logfields.URL(m.NewHref))
		}
		bs.Moves = moves
		bs.Report.Moves = len(moves)
		bs.Report.Edited = len(edited)
	}

	bs.Report.deriveOutcome()
	b := journal.Build{
		ID:         bs.BuildID,
		StartedAt:  bs.Report.Start,
		FinishedAt: time.Now(),
		Outcome:    string(bs.Report.Outcome),
		Posts:      len(bs.Posts),
	}
	if err := store.Record(ctx, b, current); err != nil {
		return journalWarning(err, "record build")
	}
	return nil
}

func (bs *BuildState) journalEntries() []journal.Entry {
	entries := make([]journal.Entry, 0, len(bs.Posts))
	for _, p := range bs.Posts {
		pl := permalink.Of(p)
		if pl == nil {
			continue
		}
		entries = append(entries, journal.Entry{
			Source:      p.SourcePath,
			Kind:        string(pl.Kind()),
			Path:        pl.Path(),
			Href:        pl.Href(links.Absolute, bs.cfg.SiteURL),
			Fingerprint: p.Fingerprint,
			Categories:  p.Categories,
		})
	}
	return entries
}

func journalWarning(err error, message string) *StageError {
	return newWarnStageError(StageJournal, ferrors.WrapError(err, ferrors.CategoryJournal, message).Warning().Build())
}

// stageNotify publishes a build-completed event. Delivery failures are
// warnings.
func stageNotify(ctx context.Context, bs *BuildState) error {
	pub := bs.builder.publisher
	if pub == nil {
		p, err := notify.NewNATSPublisher(bs.cfg.Notify.NATSURL, bs.cfg.Notify.Subject, bs.cfg.NotifyTimeout())
		if err != nil {
			return notifyWarning(err, "connect to NATS")
		}
		defer func() {
			if err := p.Close(); err != nil {
				bs.logger.Warn("Failed to close NATS connection", logfields.Error(err))
			}
		}()
		pub = p
	}

	bs.Report.deriveOutcome()
	moved := make([]string, 0, len(bs.Moves))
	for _, m := range bs.Moves {
		moved = append(moved, m.NewHref)
	}
	event := notify.BuildCompletedEvent{
		BuildID:    bs.BuildID,
		Outcome:    string(bs.Report.Outcome),
		SiteURL:    bs.cfg.SiteURL,
		BlogPath:   bs.cfg.BlogPath,
		Posts:      bs.Report.Posts,
		Categories: bs.Report.Categories,
		Files:      bs.Report.Files,
		Moved:      moved,
		DurationMS: bs.Report.Duration().Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if err := pub.Publish(ctx, event); err != nil {
		return notifyWarning(err, "publish build event")
	}
	bs.logger.Debug("Published build event", slog.String("subject", bs.cfg.Notify.Subject))
	return nil
}

func notifyWarning(err error, message string) *StageError {
	return newWarnStageError(StageNotify, ferrors.WrapError(err, ferrors.CategoryNetwork, message).Warning().Build())
}
