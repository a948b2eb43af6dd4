package permalink

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Token names available to blog_auto_permalink.
const (
	TokenYear     = "year"
	TokenMonth    = "month"
	TokenDay      = "day"
	TokenTitle    = "title"
	TokenBlogPath = "blog_path"
	TokenFilename = "filename"
)

// KnownTokens is the set of names FieldsFor always provides.
var KnownTokens = []string{TokenYear, TokenMonth, TokenDay, TokenTitle, TokenBlogPath, TokenFilename}

// FieldsFor derives the template values for p. Only :title and :filename are
// slugified; blog_path is passed through untouched.
func FieldsFor(p *post.Post, cfg *config.Config) map[string]string {
	filename := slug.Make(p.Stem())
	title := slug.Make(p.Title)
	if title == "" {
		title = filename
	}
	if title == "" {
		title = "post-" + strconv.Itoa(p.ID)
	}

	return map[string]string{
		TokenYear:     fmt.Sprintf("%04d", p.Date.Year()),
		TokenMonth:    fmt.Sprintf("%02d", int(p.Date.Month())),
		TokenDay:      fmt.Sprintf("%02d", p.Date.Day()),
		TokenTitle:    title,
		TokenBlogPath: cfg.BlogPath,
		TokenFilename: filename,
	}
}
