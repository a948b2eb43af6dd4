package post

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/links"
)

type fixedPermalink string

func (f fixedPermalink) Path() string { return string(f) }
func (f fixedPermalink) Href(mode links.Mode, siteURL string) string {
	return links.Qualify(string(f), mode, siteURL)
}

func TestSetPermalink_Once(t *testing.T) {
	p := &Post{SourcePath: "_posts/a.md"}
	require.Nil(t, p.Permalink())

	require.NoError(t, p.SetPermalink(fixedPermalink("/blog/a")))
	assert.Equal(t, "/blog/a", p.Permalink().Path())

	err := p.SetPermalink(fixedPermalink("/blog/b"))
	require.ErrorIs(t, err, ErrPermalinkAlreadySet)
	assert.Equal(t, "/blog/a", p.Permalink().Path())

	require.Error(t, (&Post{}).SetPermalink(nil))
}

func TestStem(t *testing.T) {
	p := &Post{SourcePath: "_posts/2009/01. Test Post.markdown"}
	assert.Equal(t, "01. Test Post", p.Stem())
}

func TestSortNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2009, 8, d, 0, 0, 0, 0, time.UTC) }
	posts := []*Post{
		{ID: 0, Date: day(1)},
		{ID: 1, Date: day(3)},
		{ID: 2, Date: day(3)},
		{ID: 3, Date: day(2)},
	}

	sorted := SortNewestFirst(posts)
	ids := make([]int, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	assert.Equal(t, []int{1, 2, 3, 0}, ids)
	assert.Equal(t, 0, posts[0].ID, "input must not be reordered")
}

func TestParseDate(t *testing.T) {
	want := time.Date(2009, 8, 16, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2009/08/16 00:00:00",
		"2009/08/16 00:00",
		"2009/08/16",
		"2009-08-16 00:00:00",
		"2009-08-16",
		"2009-08-16T00:00:00Z",
		"  2009/08/16  ",
	} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%q parsed as %v", raw, got)
	}

	_, err := ParseDate("16th of August")
	require.Error(t, err)
}

func TestCategoriesField(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"comma string", "Category 1, Category 2", []string{"Category 1", "Category 2"}},
		{"list", []any{"Go", "go", "Go"}, []string{"Go", "go"}},
		{"blank entries", " , Go,, ", []string{"Go"}},
		{"missing", nil, []string{}},
		{"numbers", []any{2009, "x"}, []string{"2009", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string]any{}
			if tt.in != nil {
				fields[FieldCategories] = tt.in
			}
			assert.Equal(t, tt.want, categoriesField(fields))
		})
	}
}
