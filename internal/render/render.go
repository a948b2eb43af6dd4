// Package render produces the HTML pages and RSS feeds of the blog in memory.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Kind classifies a rendered file.
type Kind string

const (
	KindPermapage    Kind = "permapage"
	KindCategoryPage Kind = "category"
	KindIndex        Kind = "index"
	KindFeed         Kind = "feed"
)

// Page is one rendered output file. Path is site-relative and always starts
// with '/'.
type Page struct {
	Path    string
	Kind    Kind
	Content []byte
}

// Renderer renders pages for one build. Pages link with root-relative URLs;
// feeds link with absolute URLs.
type Renderer struct {
	cfg       *config.Config
	permapage *template.Template
	list      *template.Template
	pageMode  links.Mode
	feedMode  links.Mode
}

// New parses the built-in templates.
func New(cfg *config.Config) (*Renderer, error) {
	permapage, err := parse("permapage", permapageTemplate)
	if err != nil {
		return nil, err
	}
	list, err := parse("list", listTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:       cfg,
		permapage: permapage,
		list:      list,
		pageMode:  links.Relative,
		feedMode:  links.Absolute,
	}, nil
}

func parse(name, content string) (*template.Template, error) {
	t, err := template.New(name).Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	if _, err := t.Parse(content); err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return t, nil
}

// OutputPath maps a permalink path to the file the permapage is written to.
// Paths ending in .html or .htm name the file itself; anything else is a
// directory holding index.html.
func OutputPath(permalinkPath string) string {
	clean := path.Join("/", permalinkPath)
	switch strings.ToLower(path.Ext(clean)) {
	case ".html", ".htm":
		return clean
	default:
		return path.Join(clean, "index.html")
	}
}

type siteView struct {
	Title    string
	BlogHref string
	FeedHref string
}

type postView struct {
	Title      string
	Href       string
	ISODate    string
	HumanDate  string
	Body       template.HTML
	Categories []category.Ref
}

type pageData struct {
	Site      siteView
	PageTitle string
	Heading   string
	FeedHref  string
	Post      postView
	Posts     []postView
}

func (r *Renderer) site() siteView {
	return siteView{
		Title:    r.cfg.SiteTitle,
		BlogHref: links.Qualify(r.cfg.BlogPath+"/", r.pageMode, r.cfg.SiteURL),
		FeedHref: links.Qualify(r.feedPath(), r.pageMode, r.cfg.SiteURL),
	}
}

func (r *Renderer) feedPath() string {
	return r.cfg.BlogPath + "/feed"
}

func (r *Renderer) view(p *post.Post, ix *category.Index) (postView, error) {
	pl := p.Permalink()
	if pl == nil {
		return postView{}, fmt.Errorf("post %s has no resolved permalink", p.SourcePath)
	}
	return postView{
		Title:      p.Title,
		Href:       pl.Href(r.pageMode, r.cfg.SiteURL),
		ISODate:    p.Date.Format("2006-01-02T15:04:05Z07:00"),
		HumanDate:  p.Date.Format("January 02, 2006"),
		Body:       p.Body,
		Categories: ix.LinksFor(p.Categories),
	}, nil
}

func execute(t *template.Template, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
