package post

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

// BodyRenderer turns a Markdown body into HTML.
type BodyRenderer interface {
	Render(body []byte) (template.HTML, error)
}

// LoadResult is the outcome of scanning a posts directory.
type LoadResult struct {
	Posts  []*Post
	Drafts int
}

// Loader reads post sources from a directory.
type Loader struct {
	dir      string
	renderer BodyRenderer
	logger   *slog.Logger
}

// NewLoader creates a loader for dir. A nil renderer uses goldmark defaults.
func NewLoader(dir string, renderer BodyRenderer, logger *slog.Logger) *Loader {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, renderer: renderer, logger: logger}
}

// IsSource reports whether path has a post source extension.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm":
		return true
	default:
		return false
	}
}

// Load reads every post under the directory in lexical path order and assigns
// IDs in that order. Drafts are skipped and counted. A missing directory
// yields no posts.
func (l *Loader) Load(ctx context.Context) (LoadResult, error) {
	paths, err := l.sources()
	if err != nil {
		return LoadResult{}, err
	}

	var result LoadResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return LoadResult{}, err
		}
		p, draft, err := l.loadFile(path)
		if err != nil {
			return LoadResult{}, err
		}
		if draft {
			result.Drafts++
			l.logger.Debug("Skipping draft", logfields.Post(path))
			continue
		}
		p.ID = len(result.Posts)
		result.Posts = append(result.Posts, p)
	}
	return result, nil
}

func (l *Loader) sources() ([]string, error) {
	if _, err := os.Stat(l.dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Posts directory does not exist", logfields.Path(l.dir))
			return nil, nil
		}
		return nil, fmt.Errorf("stat posts dir: %w", err)
	}

	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != l.dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSource(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk posts dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) loadFile(path string) (*Post, bool, error) {
	// #nosec G304 -- path comes from walking the configured posts directory.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	if boolField(doc.Fields, FieldDraft) {
		return nil, true, nil
	}

	p := &Post{
		SourcePath:   path,
		RawPermalink: stringField(doc.Fields, FieldPermalink),
		Categories:   categoriesField(doc.Fields),
		Fields:       doc.Fields,
	}
	p.Title = stringField(doc.Fields, FieldTitle).UnwrapOr(p.Stem())

	date, err := dateField(doc.Fields)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	if date.IsNone() {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil, false, fmt.Errorf("stat %s: %w", path, statErr)
		}
		date = foundation.Some(info.ModTime().UTC())
	}
	p.Date = date.Unwrap()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		// #nosec G203 -- HTML posts are author content, emitted verbatim.
		p.Body = template.HTML(doc.Body)
	default:
		p.Body, err = l.renderer.Render(doc.Body)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
	}

	canonical, err := frontmatter.Canonical(doc.Fields, mdfp.FingerprintField)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	p.Fingerprint = mdfp.CalculateFingerprintFromParts(canonical, string(doc.Body))
	return p, false, nil
}
