// Package post models blog posts and loads them from source files.
package post

import (
	"cmp"
	"errors"
	"html/template"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
)

// ErrPermalinkAlreadySet is returned when a post's permalink is assigned twice.
var ErrPermalinkAlreadySet = errors.New("permalink already set")

// Permalink is the resolved location of a post.
type Permalink interface {
	// Path is the site-relative path the permapage is written under.
	Path() string
	// Href renders the link for the given mode.
	Href(mode links.Mode, siteURL string) string
}

// Post is a single source post. Everything except the permalink is fixed once
// the loader returns.
type Post struct {
	// ID is the post's index in the build's collection, in source-file order.
	ID         int
	SourcePath string
	Title      string
	Date       time.Time
	// RawPermalink is the author's permalink, byte-for-byte.
	RawPermalink foundation.Option[string]
	// Categories are display names in authored order, without exact duplicates.
	Categories  []string
	Body        template.HTML
	Fields      map[string]any
	Fingerprint string

	permalink Permalink
}

// Stem is the source file name without directory and extension.
func (p *Post) Stem() string {
	base := filepath.Base(p.SourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SetPermalink assigns the resolved permalink. It may be called once.
func (p *Post) SetPermalink(pl Permalink) error {
	if pl == nil {
		return errors.New("nil permalink")
	}
	if p.permalink != nil {
		return ErrPermalinkAlreadySet
	}
	p.permalink = pl
	return nil
}

// Permalink returns the resolved permalink, or nil before resolution.
func (p *Post) Permalink() Permalink {
	return p.permalink
}

// SortNewestFirst orders posts by date descending, then by ID.
func SortNewestFirst(posts []*Post) []*Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b *Post) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
