package category

import (
	"slices"

	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Category is one index entry. PostIDs are ascending.
type Category struct {
	Slug    string
	Name    string
	PostIDs []int
}

// Ref is a category as linked from a page.
type Ref struct {
	Name string
	Slug string
	// URL is root-relative.
	URL string
}

// Index is the frozen category index.
type Index struct {
	blogPath   string
	bySlug     map[string]*Category
	ordered    []*Category
	collisions []Collision
}

// URL is the root-relative index URL for slug.
func (ix *Index) URL(s string) string {
	return ix.blogPath + "/category/" + s
}

// FeedURL is the root-relative feed URL for slug.
func (ix *Index) FeedURL(s string) string {
	return ix.URL(s) + "/feed"
}

// Lookup returns the category for slug.
func (ix *Index) Lookup(s string) (Category, bool) {
	c, ok := ix.bySlug[s]
	if !ok {
		return Category{}, false
	}
	return clone(c), true
}

// Categories returns every category ordered by slug.
func (ix *Index) Categories() []Category {
	out := make([]Category, len(ix.ordered))
	for i, c := range ix.ordered {
		out[i] = clone(c)
	}
	return out
}

// Len is the number of categories.
func (ix *Index) Len() int { return len(ix.ordered) }

// Collisions lists the display names folded into another name.
func (ix *Index) Collisions() []Collision {
	return slices.Clone(ix.collisions)
}

// LinksFor maps a post's category names to links in authored order. Names
// sharing a slug yield one link under the index's display name.
func (ix *Index) LinksFor(names []string) []Ref {
	refs := make([]Ref, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		s := slug.Make(name)
		c, ok := ix.bySlug[s]
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		refs = append(refs, Ref{Name: c.Name, Slug: s, URL: ix.URL(s)})
	}
	return refs
}

func clone(c *Category) Category {
	return Category{Slug: c.Slug, Name: c.Name, PostIDs: slices.Clone(c.PostIDs)}
}
