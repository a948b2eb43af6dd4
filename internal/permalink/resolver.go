package permalink

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// NoPermalinkError is returned for a post without an explicit permalink when
// auto permalinks are disabled.
type NoPermalinkError struct {
	Source string
}

func (e *NoPermalinkError) Error() string {
	return fmt.Sprintf("post %s has no permalink and blog_auto_permalink_enabled is false", e.Source)
}

// Resolver computes permalinks for one build. It only reads the config and
// is safe for concurrent use.
type Resolver struct {
	cfg *config.Config
}

// NewResolver validates the auto permalink template against the known tokens
// so a bad template fails before any post is read.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	if cfg.AutoPermalinkEnabled {
		if err := ValidateTemplate(cfg.AutoPermalink); err != nil {
			return nil, err
		}
	}
	return &Resolver{cfg: cfg}, nil
}

// ValidateTemplate fails with *UnknownTokenError on the first token FieldsFor
// does not provide.
func ValidateTemplate(template string) error {
	for _, name := range Tokens(template) {
		if !slices.Contains(KnownTokens, name) {
			return &UnknownTokenError{Token: name, Template: template}
		}
	}
	return nil
}

// Resolve picks the permalink for p:
//   - an explicit permalink with an http(s) scheme is kept as an absolute URL;
//   - any other explicit permalink is kept as a path;
//   - otherwise blog_auto_permalink is expanded, or *NoPermalinkError is
//     returned when auto permalinks are off.
//
// Explicit values are never altered. An expansion that does not start with
// '/' is placed under blog_path.
func (r *Resolver) Resolve(p *post.Post) (Permalink, error) {
	if raw, ok := p.RawPermalink.Get(); ok {
		if links.HasScheme(raw) {
			return ExplicitAbsolute{URL: raw}, nil
		}
		return ExplicitPath{Location: raw}, nil
	}

	if !r.cfg.AutoPermalinkEnabled {
		return nil, &NoPermalinkError{Source: p.SourcePath}
	}

	expanded, err := Expand(r.cfg.AutoPermalink, FieldsFor(p, r.cfg))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(expanded, "/") {
		expanded = r.cfg.BlogPath + "/" + strings.TrimLeft(expanded, "/")
	}
	return AutoGenerated{Location: expanded}, nil
}

// ResolveAndSet resolves p and stores the result on it.
func (r *Resolver) ResolveAndSet(p *post.Post) (Permalink, error) {
	pl, err := r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if err := p.SetPermalink(pl); err != nil {
		return nil, fmt.Errorf("%s: %w", p.SourcePath, err)
	}
	return pl, nil
}
