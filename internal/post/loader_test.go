package post

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "b.markdown", `---
categories: Category 1, Category 2
date: 2009/08/16 00:00:00
title: This is a test post
permalink: http://www.MixedCase.org/bLog/2009/08/16/This-Is-A-TeSt-Post
---
This is a test post
`)
	writePost(t, dir, "a.md", "---\ntitle: First\ndate: 2009-08-15\n---\n# Hi\n")
	writePost(t, dir, "c.html", "---\ntitle: Raw\ndate: 2009-08-17\n---\n<p>raw *html*</p>\n")
	writePost(t, dir, "d.md", "---\ntitle: Draft\ndraft: true\n---\nnot yet\n")
	writePost(t, dir, "notes.txt", "ignored")
	writePost(t, dir, ".hidden/e.md", "---\ntitle: Hidden\n---\n")

	result, err := NewLoader(dir, nil, nil).Load(t.Context())
	require.NoError(t, err)
	require.Len(t, result.Posts, 3)
	assert.Equal(t, 1, result.Drafts)

	first, second, third := result.Posts[0], result.Posts[1], result.Posts[2]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "First", first.Title)
	assert.Contains(t, string(first.Body), `<h1 id="hi">Hi</h1>`)
	assert.True(t, first.RawPermalink.IsNone())
	assert.Empty(t, first.Categories)

	assert.Equal(t, 1, second.ID)
	assert.Equal(t, "This is a test post", second.Title)
	assert.Equal(t, time.Date(2009, 8, 16, 0, 0, 0, 0, time.UTC), second.Date)
	assert.Equal(t, "http://www.MixedCase.org/bLog/2009/08/16/This-Is-A-TeSt-Post", second.RawPermalink.Unwrap())
	assert.Equal(t, []string{"Category 1", "Category 2"}, second.Categories)
	assert.NotEmpty(t, second.Fingerprint)

	assert.Equal(t, 2, third.ID)
	assert.Equal(t, "<p>raw *html*</p>\n", string(third.Body))
}

func TestLoader_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writePost(t, dir, "No Front Matter.md", "just text\n")
	mod := time.Date(2010, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mod, mod))

	result, err := NewLoader(dir, nil, nil).Load(t.Context())
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)

	p := result.Posts[0]
	assert.Equal(t, "No Front Matter", p.Title)
	assert.True(t, mod.Equal(p.Date))
	assert.Empty(t, p.Categories)
}

func TestLoader_FingerprintIgnoresStoredFingerprint(t *testing.T) {
	dir := t.TempDir()
	writePost(t, filepath.Join(dir, "one"), "a.md", "---\ntitle: A\n---\nbody\n")
	writePost(t, filepath.Join(dir, "two"), "a.md", "---\ntitle: A\nfingerprint: stale\n---\nbody\n")

	one, err := NewLoader(filepath.Join(dir, "one"), nil, nil).Load(t.Context())
	require.NoError(t, err)
	two, err := NewLoader(filepath.Join(dir, "two"), nil, nil).Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, one.Posts[0].Fingerprint, two.Posts[0].Fingerprint)
}

func TestLoader_MissingDirectory(t *testing.T) {
	result, err := NewLoader(filepath.Join(t.TempDir(), "nope"), nil, nil).Load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, result.Posts)
}

func TestLoader_InvalidDate(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\ndate: someday\n---\n")

	_, err := NewLoader(dir, nil, nil).Load(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.md")
}

func TestLoader_UnterminatedFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ntitle: A\nbody\n")

	_, err := NewLoader(dir, nil, nil).Load(t.Context())
	require.Error(t, err)
}
