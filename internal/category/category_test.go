package category

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func TestBuilder_RegisterAndFreeze(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyLenient, nil)

	require.NoError(t, b.Register(1, []string{"Category 1", "Category 2"}))
	require.NoError(t, b.Register(0, []string{"Category 1"}))
	require.NoError(t, b.Register(0, []string{"Category 1"}))
	require.NoError(t, b.Register(2, nil))

	ix := b.Freeze()
	require.Equal(t, 2, ix.Len())

	c1, ok := ix.Lookup("category-1")
	require.True(t, ok)
	assert.Equal(t, "Category 1", c1.Name)
	assert.Equal(t, []int{0, 1}, c1.PostIDs, "members are unique and ascending")

	assert.Equal(t, "/blog/category/category-1", ix.URL("category-1"))
	assert.Equal(t, "/blog/category/category-2/feed", ix.FeedURL("category-2"))

	slugs := []string{}
	for _, c := range ix.Categories() {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"category-1", "category-2"}, slugs)
	assert.Empty(t, ix.Collisions())
}

func TestBuilder_BlogPathCaseKept(t *testing.T) {
	b := NewBuilder("/Blog", config.CategoryPolicyLenient, nil)
	require.NoError(t, b.Register(0, []string{"Go Lang"}))

	ix := b.Freeze()
	assert.Equal(t, []Ref{{Name: "Go Lang", Slug: "go-lang", URL: "/Blog/category/go-lang"}}, ix.LinksFor([]string{"Go Lang"}))
}

func TestBuilder_LenientCollisionKeepsLowestPostID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	b := NewBuilder("/blog", config.CategoryPolicyLenient, logger)

	require.NoError(t, b.Register(5, []string{"go"}))
	require.NoError(t, b.Register(2, []string{"Go"}))
	require.NoError(t, b.Register(9, []string{"GO!"}))

	ix := b.Freeze()
	c, ok := ix.Lookup("go")
	require.True(t, ok)
	assert.Equal(t, "Go", c.Name)
	assert.Equal(t, []int{2, 5, 9}, c.PostIDs)

	collisions := ix.Collisions()
	require.Len(t, collisions, 2)
	assert.Equal(t, Collision{Slug: "go", Kept: "Go", Dropped: "go", PostID: 5}, collisions[0])
	assert.Equal(t, Collision{Slug: "go", Kept: "Go", Dropped: "GO!", PostID: 9}, collisions[1])
	assert.Contains(t, logs.String(), "level=WARN")

	refs := ix.LinksFor([]string{"go", "GO!", "Other"})
	assert.Equal(t, []Ref{{Name: "Go", Slug: "go", URL: "/blog/category/go"}}, refs)
}

func TestBuilder_StrictCollisionFails(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyStrict, nil)

	require.NoError(t, b.Register(0, []string{"Go"}))
	require.NoError(t, b.Register(1, []string{"Go"}))
	err := b.Register(2, []string{"go"})

	var ambiguous *AmbiguousCategorySlugError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "go", ambiguous.Slug)
	assert.Equal(t, "Go", ambiguous.Existing)
	assert.Equal(t, "go", ambiguous.Incoming)
}

func TestBuilder_StrictCollisionIsOrderIndependent(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyStrict, nil)

	require.NoError(t, b.Register(4, []string{"go"}))
	err := b.Register(1, []string{"Go"})

	var ambiguous *AmbiguousCategorySlugError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "Go", ambiguous.Existing, "lower post ID is treated as first seen")
	assert.Equal(t, "go", ambiguous.Incoming)
}

func TestBuilder_SkipsEmptySlug(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyLenient, nil)
	require.NoError(t, b.Register(0, []string{"???", "Real"}))

	ix := b.Freeze()
	assert.Equal(t, 1, ix.Len())
}

func TestBuilder_RegisterAfterFreeze(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyLenient, nil)
	b.Freeze()
	require.ErrorIs(t, b.Register(0, []string{"x"}), ErrFrozen)
}

func TestBuilder_ConcurrentRegistrationIsDeterministic(t *testing.T) {
	names := [][]string{
		{"Go", "Rust"},
		{"go", "Zig"},
		{"GO", "rust"},
		{"Zig"},
	}

	build := func() *Index {
		b := NewBuilder("/blog", config.CategoryPolicyLenient, slog.New(slog.DiscardHandler))
		var wg sync.WaitGroup
		for id := len(names) - 1; id >= 0; id-- {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, b.Register(id, names[id]))
			}()
		}
		wg.Wait()
		return b.Freeze()
	}

	want := build()
	for range 20 {
		got := build()
		assert.Equal(t, want.Categories(), got.Categories())
		assert.Equal(t, want.Collisions(), got.Collisions())
	}

	g, _ := want.Lookup("go")
	assert.Equal(t, "Go", g.Name)
	assert.Equal(t, []int{0, 1, 2}, g.PostIDs)
}

func TestIndex_LookupReturnsCopy(t *testing.T) {
	b := NewBuilder("/blog", config.CategoryPolicyLenient, nil)
	require.NoError(t, b.Register(0, []string{"x"}))
	ix := b.Freeze()

	c, _ := ix.Lookup("x")
	c.PostIDs[0] = 99

	again, _ := ix.Lookup("x")
	assert.Equal(t, []int{0}, again.PostIDs)
}
