package markdown

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Basic(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("# Hello\n\nThis is a *test* post.\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<h1 id="hello">Hello</h1>`)
	require.Contains(t, string(out), "<em>test</em>")
}

func TestRender_GFMTable(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("<div class=\"note\">hi</div>\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<div class="note">hi</div>`)
}

func TestRender_Concurrent(t *testing.T) {
	r := NewRenderer()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render([]byte("para\n"))
			if err != nil || !strings.Contains(string(out), "<p>para</p>") {
				t.Errorf("unexpected render: %q %v", out, err)
			}
		}()
	}
	wg.Wait()
}
