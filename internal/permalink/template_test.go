package permalink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	fields := map[string]string{
		"year":      "2009",
		"month":     "08",
		"day":       "16",
		"title":     "this-is-a-test-post",
		"blog_path": "/Blog",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", ":blog_path/:year/:month/:day/:title", "/Blog/2009/08/16/this-is-a-test-post"},
		{"literal case kept", "/Blog/:year/:month/:day/:title", "/Blog/2009/08/16/this-is-a-test-post"},
		{"mixed literals", "/Archive-:year/Posts/:title.HTML", "/Archive-2009/Posts/this-is-a-test-post.HTML"},
		{"no tokens", "/About/Me", "/About/Me"},
		{"lone colon", "/a:/b:1/:title", "/a:/b:1/this-is-a-test-post"},
		{"trailing colon", "/:title:", "/this-is-a-test-post:"},
		{"adjacent tokens", ":year:month", "200908"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.template, fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_UnknownToken(t *testing.T) {
	_, err := Expand("/blog/:year/:slug", map[string]string{"year": "2009"})
	require.Error(t, err)

	var unknown *UnknownTokenError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "slug", unknown.Token)
	assert.Equal(t, "/blog/:year/:slug", unknown.Template)
}

func TestExpand_TokensAreCaseSensitive(t *testing.T) {
	_, err := Expand("/:Title", map[string]string{"title": "x"})
	var unknown *UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Title", unknown.Token)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"blog_path", "year", "month", "day", "title"}, Tokens(":blog_path/:year/:month/:day/:title"))
	assert.Empty(t, Tokens("/static/path"))
	assert.Equal(t, []string{"_x1"}, Tokens("/a::_x1/:9"))
}

func TestValidateTemplate(t *testing.T) {
	require.NoError(t, ValidateTemplate(":blog_path/:year/:month/:day/:title"))
	require.NoError(t, ValidateTemplate(":year/:filename"))

	var unknown *UnknownTokenError
	require.ErrorAs(t, ValidateTemplate("/blog/:uuid"), &unknown)
	assert.Equal(t, "uuid", unknown.Token)
}
