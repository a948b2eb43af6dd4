package render

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Permapage renders the standalone page of p.
func (r *Renderer) Permapage(p *post.Post, ix *category.Index) (Page, error) {
	v, err := r.view(p, ix)
	if err != nil {
		return Page{}, err
	}
	content, err := execute(r.permapage, pageData{Site: r.site(), PageTitle: p.Title, Post: v})
	if err != nil {
		return Page{}, fmt.Errorf("render permapage %s: %w", p.SourcePath, err)
	}
	return Page{Path: OutputPath(p.Permalink().Path()), Kind: KindPermapage, Content: content}, nil
}

// Index renders the blog front page listing posts newest first.
func (r *Renderer) Index(posts []*post.Post, ix *category.Index) (Page, error) {
	views, err := r.views(post.SortNewestFirst(posts), ix)
	if err != nil {
		return Page{}, err
	}
	content, err := execute(r.list, pageData{
		Site:     r.site(),
		Heading:  r.cfg.SiteTitle,
		FeedHref: r.site().FeedHref,
		Posts:    views,
	})
	if err != nil {
		return Page{}, fmt.Errorf("render blog index: %w", err)
	}
	return Page{Path: r.cfg.BlogPath + "/index.html", Kind: KindIndex, Content: content}, nil
}

// CategoryPage renders the listing of one category. byID must hold every
// post of the build indexed by ID.
func (r *Renderer) CategoryPage(c category.Category, byID []*post.Post, ix *category.Index) (Page, error) {
	members, err := membersOf(c, byID)
	if err != nil {
		return Page{}, err
	}
	views, err := r.views(post.SortNewestFirst(members), ix)
	if err != nil {
		return Page{}, err
	}
	content, err := execute(r.list, pageData{
		Site:      r.site(),
		PageTitle: c.Name,
		Heading:   "Category: " + c.Name,
		FeedHref:  ix.FeedURL(c.Slug),
		Posts:     views,
	})
	if err != nil {
		return Page{}, fmt.Errorf("render category %s: %w", c.Slug, err)
	}
	return Page{Path: ix.URL(c.Slug) + "/index.html", Kind: KindCategoryPage, Content: content}, nil
}

func (r *Renderer) views(posts []*post.Post, ix *category.Index) ([]postView, error) {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		v, err := r.view(p, ix)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func membersOf(c category.Category, byID []*post.Post) ([]*post.Post, error) {
	members := make([]*post.Post, 0, len(c.PostIDs))
	for _, id := range c.PostIDs {
		if id < 0 || id >= len(byID) {
			return nil, fmt.Errorf("category %s references unknown post %d", c.Slug, id)
		}
		members = append(members, byID[id])
	}
	return members, nil
}
