// Package journal records the permalinks of every build so URL changes
// between builds can be detected.
package journal

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Build is one recorded build.
type Build struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	Posts      int
}

// Entry is the permalink of one post in one build.
type Entry struct {
	Source      string
	Kind        string
	Path        string
	Href        string
	Fingerprint string
	Categories  []string
}

// Store persists builds and their entries.
type Store interface {
	// Record stores b and its entries atomically.
	Record(ctx context.Context, b Build, entries []Entry) error
	// Latest returns the most recently started build.
	Latest(ctx context.Context) (Build, bool, error)
	// Entries returns the entries of a build ordered by source.
	Entries(ctx context.Context, buildID string) ([]Entry, error)
	Close() error
}

// Move is a post whose URL differs from the previous build.
type Move struct {
	Source  string
	OldHref string
	NewHref string
}

// Diff compares two builds by source path. It returns the posts whose URL
// moved and the sources whose content fingerprint changed.
func Diff(previous, current []Entry) (moves []Move, edited []string) {
	before := make(map[string]Entry, len(previous))
	for _, e := range previous {
		before[e.Source] = e
	}
	for _, e := range current {
		old, ok := before[e.Source]
		if !ok {
			continue
		}
		if old.Href != e.Href {
			moves = append(moves, Move{Source: e.Source, OldHref: old.Href, NewHref: e.Href})
		}
		if old.Fingerprint != e.Fingerprint {
			edited = append(edited, e.Source)
		}
	}
	slices.SortFunc(moves, func(a, b Move) int { return strings.Compare(a.Source, b.Source) })
	slices.Sort(edited)
	return moves, edited
}
