package permalink

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Kind names a permalink variant for reports and the journal.
type Kind string

const (
	KindExplicitAbsolute Kind = "explicit_absolute"
	KindExplicitPath     Kind = "explicit_path"
	KindAutoGenerated    Kind = "auto"
)

// Permalink is one of ExplicitAbsolute, ExplicitPath or AutoGenerated.
type Permalink interface {
	post.Permalink
	Kind() Kind
	sealed()
}

// ExplicitAbsolute is an author-supplied URL with a scheme. It is emitted
// byte-for-byte in every link mode.
type ExplicitAbsolute struct {
	URL string
}

// ExplicitPath is an author-supplied path without a scheme, kept verbatim.
type ExplicitPath struct {
	Location string
}

// AutoGenerated is the expansion of blog_auto_permalink.
type AutoGenerated struct {
	Location string
}

// Path is the URL's path component; the permapage is written there.
func (p ExplicitAbsolute) Path() string {
	u, err := url.Parse(p.URL)
	if err == nil {
		if u.Path == "" {
			return "/"
		}
		return u.Path
	}
	// Fall back to everything after the authority.
	rest := p.URL[strings.Index(p.URL, "://")+3:]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 && rest[i] == '/' {
		rest = rest[i:]
		if j := strings.IndexAny(rest, "?#"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return "/"
}

func (p ExplicitAbsolute) Href(links.Mode, string) string { return p.URL }
func (ExplicitAbsolute) Kind() Kind                       { return KindExplicitAbsolute }
func (ExplicitAbsolute) sealed()                          {}

func (p ExplicitPath) Path() string { return p.Location }
func (p ExplicitPath) Href(mode links.Mode, siteURL string) string {
	return links.Qualify(p.Location, mode, siteURL)
}
func (ExplicitPath) Kind() Kind { return KindExplicitPath }
func (ExplicitPath) sealed()    {}

func (p AutoGenerated) Path() string { return p.Location }
func (p AutoGenerated) Href(mode links.Mode, siteURL string) string {
	return links.Qualify(p.Location, mode, siteURL)
}
func (AutoGenerated) Kind() Kind { return KindAutoGenerated }
func (AutoGenerated) sealed()    {}

// Of returns the resolved permalink of p, or nil when p has not been resolved
// by this package.
func Of(p *post.Post) Permalink {
	pl, _ := p.Permalink().(Permalink)
	return pl
}
