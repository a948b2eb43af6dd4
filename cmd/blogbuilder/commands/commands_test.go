package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogbuilder"),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
		kong.BindTo(t.Context(), (*context.Context)(nil)),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Logger: slog.New(slog.DiscardHandler), Out: &out}, cli)
	return out.String(), err
}

// newBlog creates an initialized blog in a fresh working directory.
func newBlog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	_, err := run(t, "init")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll("_posts", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join("_posts", "test.md"), []byte(`---
title: This is a test post
date: 2009/08/16
categories: Category 1, Category 2
---
Hello.
`), 0o600))
	return dir
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	newBlog(t)

	_, err := run(t, "init")
	require.Error(t, err)
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	_, err = run(t, "init", "--force")
	require.NoError(t, err)
}

func TestBuild(t *testing.T) {
	newBlog(t)

	out, err := run(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=success")
	assert.FileExists(t, filepath.Join("_site", "blog", "2009", "08", "16", "this-is-a-test-post", "index.html"))
	assert.FileExists(t, filepath.Join("_site", "blog", "category", "category-1", "index.html"))
	assert.FileExists(t, filepath.Join("_site", "blog", "feed", "index.xml"))
}

func TestBuild_OutputOverrideAndDryRun(t *testing.T) {
	newBlog(t)

	_, err := run(t, "build", "--dry-run")
	require.NoError(t, err)
	assert.NoDirExists(t, "_site")

	_, err = run(t, "build", "-o", "public")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("public", "blog", "index.html"))
}

func TestBuild_MissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "build")
	require.Error(t, err)
	adapter := ferrors.NewCLIErrorAdapter(false, nil)
	assert.Equal(t, 7, adapter.ExitCodeFor(err))
	assert.Contains(t, adapter.FormatError(err), "load configuration")
}

func TestPermalinks_JSON(t *testing.T) {
	newBlog(t)

	out, err := run(t, "permalinks", "--format", "json")
	require.NoError(t, err)

	var rows []permalinkRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "auto", rows[0].Kind)
	assert.Equal(t, "/blog/2009/08/16/this-is-a-test-post", rows[0].Path)
	assert.Equal(t, "http://www.example.com/blog/2009/08/16/this-is-a-test-post", rows[0].URL)
	assert.NoDirExists(t, "_site")
}

func TestPermalinks_Table(t *testing.T) {
	newBlog(t)

	out, err := run(t, "permalinks")
	require.NoError(t, err)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "http://www.example.com/blog/2009/08/16/this-is-a-test-post")
}

func TestCategories(t *testing.T) {
	newBlog(t)

	out, err := run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "category-1")
	assert.Contains(t, out, "Category 2")
	assert.Contains(t, out, "/blog/category/category-1")
}

func TestVerify(t *testing.T) {
	newBlog(t)
	_, err := run(t, "build")
	require.NoError(t, err)

	out, err := run(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "issues=0")

	broken := filepath.Join("_site", "blog", "broken.html")
	require.NoError(t, os.WriteFile(broken, []byte(`<a href="/blog/nowhere">x</a>`), 0o600))
	out, err = run(t, "verify")
	require.Error(t, err)
	assert.Contains(t, out, "broken_internal_link")
	assert.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}
