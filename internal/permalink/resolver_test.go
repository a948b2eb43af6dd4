package permalink

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

func testPost(permalink string) *post.Post {
	p := &post.Post{
		ID:         3,
		SourcePath: "_posts/001. test post.markdown",
		Title:      "This is a test post",
		Date:       time.Date(2009, 8, 16, 0, 0, 0, 0, time.UTC),
	}
	if permalink != "" {
		p.RawPermalink = foundation.Some(permalink)
	}
	return p
}

func newResolver(t *testing.T, mutate func(*config.Config)) *Resolver {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(cfg)
	}
	r, err := NewResolver(cfg)
	require.NoError(t, err)
	return r
}

func TestResolve_AutoDefault(t *testing.T) {
	r := newResolver(t, nil)

	pl, err := r.Resolve(testPost(""))
	require.NoError(t, err)
	assert.Equal(t, AutoGenerated{Location: "/blog/2009/08/16/this-is-a-test-post"}, pl)
	assert.Equal(t, "/blog/2009/08/16/this-is-a-test-post", pl.Href(links.Relative, "http://www.test.com"))
	assert.Equal(t, "http://www.test.com/blog/2009/08/16/this-is-a-test-post", pl.Href(links.Absolute, "http://www.test.com"))
}

func TestResolve_UpperCaseBlogPathTemplate(t *testing.T) {
	r := newResolver(t, func(c *config.Config) {
		c.BlogPath = "/Blog"
		c.AutoPermalink = "/Blog/:year/:month/:day/:title"
	})

	pl, err := r.Resolve(testPost(""))
	require.NoError(t, err)
	assert.Equal(t, "/Blog/2009/08/16/this-is-a-test-post", pl.Path())
}

func TestResolve_BlogPathTokenKeepsCase(t *testing.T) {
	r := newResolver(t, func(c *config.Config) { c.BlogPath = "/My-Blog" })

	pl, err := r.Resolve(testPost(""))
	require.NoError(t, err)
	assert.Equal(t, "/My-Blog/2009/08/16/this-is-a-test-post", pl.Path())
}

func TestResolve_RelativeTemplateJoinsBlogPath(t *testing.T) {
	tests := []struct {
		blogPath string
		want     string
	}{
		{"/Blog", "/Blog/2009/this-is-a-test-post"},
		{"", "/2009/this-is-a-test-post"},
	}
	for _, tt := range tests {
		r := newResolver(t, func(c *config.Config) {
			c.BlogPath = tt.blogPath
			c.AutoPermalink = ":year/:title"
		})
		pl, err := r.Resolve(testPost(""))
		require.NoError(t, err)
		assert.Equal(t, tt.want, pl.Path())
	}
}

func TestResolve_ExplicitAbsoluteVerbatim(t *testing.T) {
	r := newResolver(t, nil)
	raw := "http://www.MixedCase.org/bLog/2009/08/16/This-Is-A-TeSt-Post"

	pl, err := r.Resolve(testPost(raw))
	require.NoError(t, err)
	require.IsType(t, ExplicitAbsolute{}, pl)
	assert.Equal(t, raw, pl.Href(links.Relative, "http://www.test.com"))
	assert.Equal(t, raw, pl.Href(links.Absolute, "http://www.test.com"))
	assert.Equal(t, "/bLog/2009/08/16/This-Is-A-TeSt-Post", pl.Path())
}

func TestResolve_SchemeIsCaseInsensitive(t *testing.T) {
	r := newResolver(t, nil)

	pl, err := r.Resolve(testPost("HTTPS://Example.COM/X"))
	require.NoError(t, err)
	assert.Equal(t, KindExplicitAbsolute, pl.Kind())
	assert.Equal(t, "HTTPS://Example.COM/X", pl.Href(links.Absolute, "http://www.test.com"))
}

func TestResolve_ExplicitPathVerbatim(t *testing.T) {
	r := newResolver(t, nil)

	pl, err := r.Resolve(testPost("/bLog/2009/08/16/This-Is-A-TeSt-Post"))
	require.NoError(t, err)
	assert.Equal(t, ExplicitPath{Location: "/bLog/2009/08/16/This-Is-A-TeSt-Post"}, pl)
	assert.Equal(t, "/bLog/2009/08/16/This-Is-A-TeSt-Post", pl.Href(links.Relative, "http://www.test.com"))
	assert.Equal(t, "http://www.test.com/bLog/2009/08/16/This-Is-A-TeSt-Post", pl.Href(links.Absolute, "http://www.test.com/"))
}

func TestResolve_ExplicitWinsWhenAutoDisabled(t *testing.T) {
	r := newResolver(t, func(c *config.Config) { c.AutoPermalinkEnabled = false })

	pl, err := r.Resolve(testPost("/Custom"))
	require.NoError(t, err)
	assert.Equal(t, "/Custom", pl.Path())
}

func TestResolve_NoPermalink(t *testing.T) {
	r := newResolver(t, func(c *config.Config) { c.AutoPermalinkEnabled = false })

	_, err := r.Resolve(testPost(""))
	var none *NoPermalinkError
	require.True(t, errors.As(err, &none))
	assert.Equal(t, "_posts/001. test post.markdown", none.Source)
}

func TestNewResolver_RejectsUnknownToken(t *testing.T) {
	cfg := config.Defaults()
	cfg.AutoPermalink = "/blog/:year/:slug"

	_, err := NewResolver(cfg)
	var unknown *UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "slug", unknown.Token)

	cfg.AutoPermalinkEnabled = false
	_, err = NewResolver(cfg)
	require.NoError(t, err, "template is unused when auto permalinks are off")
}

func TestResolve_Deterministic(t *testing.T) {
	r := newResolver(t, nil)
	p := testPost("")

	first, err := r.Resolve(p)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := r.Resolve(p)
			assert.NoError(t, err)
			assert.Equal(t, first, again)
		}()
	}
	wg.Wait()
}

func TestResolveAndSet(t *testing.T) {
	r := newResolver(t, nil)
	p := testPost("")

	pl, err := r.ResolveAndSet(p)
	require.NoError(t, err)
	assert.Equal(t, pl, Of(p))

	_, err = r.ResolveAndSet(p)
	require.ErrorIs(t, err, post.ErrPermalinkAlreadySet)
}

func TestFieldsFor(t *testing.T) {
	cfg := config.Defaults()
	cfg.BlogPath = "/Blog"

	p := testPost("")
	p.Date = time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC)
	fields := FieldsFor(p, cfg)

	assert.Equal(t, "2010", fields[TokenYear])
	assert.Equal(t, "01", fields[TokenMonth])
	assert.Equal(t, "02", fields[TokenDay])
	assert.Equal(t, "this-is-a-test-post", fields[TokenTitle])
	assert.Equal(t, "/Blog", fields[TokenBlogPath])
	assert.Equal(t, "001-test-post", fields[TokenFilename])
}

func TestFieldsFor_TitleFallbacks(t *testing.T) {
	cfg := config.Defaults()

	p := testPost("")
	p.Title = "!!!"
	assert.Equal(t, "001-test-post", FieldsFor(p, cfg)[TokenTitle])

	p.SourcePath = "_posts/---.md"
	assert.Equal(t, "post-3", FieldsFor(p, cfg)[TokenTitle])
}

func TestExplicitAbsolutePath(t *testing.T) {
	tests := map[string]string{
		"http://example.com":              "/",
		"https://example.com/":            "/",
		"https://example.com/A/b?q=1#top": "/A/b",
		"http://example.com/%zz/Bad":      "/%zz/Bad",
	}
	for raw, want := range tests {
		assert.Equal(t, want, ExplicitAbsolute{URL: raw}.Path(), raw)
	}
}
