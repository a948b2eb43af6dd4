// Package category groups posts under slugified category URLs.
package category

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// ErrFrozen is returned by Register after Freeze.
var ErrFrozen = errors.New("category index is frozen")

// AmbiguousCategorySlugError reports two distinct display names that share a
// slug under the strict policy.
type AmbiguousCategorySlugError struct {
	Slug     string
	Existing string
	Incoming string
}

func (e *AmbiguousCategorySlugError) Error() string {
	return fmt.Sprintf("categories %q and %q both map to slug %q", e.Existing, e.Incoming, e.Slug)
}

// Collision records a display name that was folded into another one.
type Collision struct {
	Slug    string
	Kept    string
	Dropped string
	PostID  int
}

// order ranks a name by the first post that used it, then by position in
// that post's list, so the kept name does not depend on worker scheduling.
type order struct {
	postID int
	pos    int
}

func (o order) less(other order) bool {
	if o.postID != other.postID {
		return o.postID < other.postID
	}
	return o.pos < other.pos
}

type entry struct {
	names   map[string]order
	members map[int]struct{}
}

// Builder collects category membership. Register may be called from many
// goroutines.
type Builder struct {
	mu       sync.Mutex
	blogPath string
	policy   config.CategoryPolicy
	logger   *slog.Logger
	entries  map[string]*entry
	frozen   bool
}

// NewBuilder creates a builder rooted at blogPath.
func NewBuilder(blogPath string, policy config.CategoryPolicy, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		blogPath: blogPath,
		policy:   policy,
		logger:   logger,
		entries:  make(map[string]*entry),
	}
}

// Register adds postID to the category of every name. Names that slugify to
// nothing are skipped. Under the strict policy a second display name for an
// existing slug fails with *AmbiguousCategorySlugError.
func (b *Builder) Register(postID int, names []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return ErrFrozen
	}

	for pos, name := range names {
		s := slug.Make(name)
		if s == "" {
			b.logger.Warn("Skipping category without slug", logfields.Category(name), logfields.PostID(postID))
			continue
		}

		e, ok := b.entries[s]
		if !ok {
			e = &entry{names: make(map[string]order), members: make(map[int]struct{})}
			b.entries[s] = e
		}

		at := order{postID: postID, pos: pos}
		if b.policy == config.CategoryPolicyStrict {
			for existing, first := range e.names {
				if existing == name {
					continue
				}
				if at.less(first) {
					return &AmbiguousCategorySlugError{Slug: s, Existing: name, Incoming: existing}
				}
				return &AmbiguousCategorySlugError{Slug: s, Existing: existing, Incoming: name}
			}
		}
		if first, seen := e.names[name]; !seen || at.less(first) {
			e.names[name] = at
		}
		e.members[postID] = struct{}{}
	}
	return nil
}

// Freeze ends registration and returns the read-only index. Collisions found
// under the lenient policy are logged here in slug order.
func (b *Builder) Freeze() *Index {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true

	ix := &Index{
		blogPath: b.blogPath,
		bySlug:   make(map[string]*Category, len(b.entries)),
	}
	for s, e := range b.entries {
		kept, keptAt := "", order{}
		for name, at := range e.names {
			if kept == "" || at.less(keptAt) {
				kept, keptAt = name, at
			}
		}
		for name, at := range e.names {
			if name != kept {
				ix.collisions = append(ix.collisions, Collision{Slug: s, Kept: kept, Dropped: name, PostID: at.postID})
			}
		}

		ids := make([]int, 0, len(e.members))
		for id := range e.members {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		c := &Category{Slug: s, Name: kept, PostIDs: ids}
		ix.bySlug[s] = c
		ix.ordered = append(ix.ordered, c)
	}

	slices.SortFunc(ix.ordered, func(a, b *Category) int { return cmp.Compare(a.Slug, b.Slug) })
	slices.SortFunc(ix.collisions, func(a, b Collision) int {
		if c := cmp.Compare(a.Slug, b.Slug); c != 0 {
			return c
		}
		return cmp.Compare(a.PostID, b.PostID)
	})
	for _, c := range ix.collisions {
		b.logger.Warn("Category names share a slug; keeping the first",
			logfields.Slug(c.Slug),
			slog.String("kept", c.Kept),
			slog.String("dropped", c.Dropped),
			logfields.PostID(c.PostID))
	}
	return ix
}
