package linkverify

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Reason explains why a link was reported.
type Reason string

const (
	// ReasonFeedNotAbsolute: a feed link without an http(s) scheme.
	ReasonFeedNotAbsolute Reason = "feed_link_not_absolute"
	// ReasonCategoryNotRootRelative: a category link on a page that is not root-relative.
	ReasonCategoryNotRootRelative Reason = "category_link_not_root_relative"
	// ReasonBrokenInternal: a root-relative link to a path the build did not write.
	ReasonBrokenInternal Reason = "broken_internal_link"
)

// Issue is one reported link.
type Issue struct {
	File   string `json:"file"`
	Tag    string `json:"tag"`
	URL    string `json:"url"`
	Reason Reason `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: <%s> %q: %s", i.File, i.Tag, i.URL, i.Reason)
}

// Report summarizes a verification run.
type Report struct {
	FilesChecked int     `json:"files_checked"`
	LinksChecked int     `json:"links_checked"`
	Issues       []Issue `json:"issues,omitempty"`
}

// Verifier checks the link rules of a rendered blog: feeds link absolutely,
// pages link to categories root-relatively, and root-relative links resolve.
type Verifier struct {
	categoryPrefix string
	logger         *slog.Logger
}

// NewVerifier creates a verifier for a blog rooted at blogPath.
func NewVerifier(blogPath string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{categoryPrefix: blogPath + "/category/", logger: logger}
}

// VerifyDir checks every .html and .xml file below root.
func (v *Verifier) VerifyDir(ctx context.Context, root string) (Report, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, "/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("walk output: %w", err)
	}
	slices.Sort(files)

	open := func(sitePath string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(sitePath, "/"))))
	}
	return v.Verify(ctx, files, open)
}

// Verify checks the given site files. files must list every output file so
// internal links can be resolved against it.
func (v *Verifier) Verify(ctx context.Context, files []string, open func(string) (io.ReadCloser, error)) (Report, error) {
	existing := make(map[string]struct{}, len(files))
	for _, f := range files {
		existing[f] = struct{}{}
	}

	var report Report
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		var isFeed bool
		switch strings.ToLower(path.Ext(f)) {
		case ".xml":
			isFeed = true
		case ".html", ".htm":
		default:
			continue
		}

		found, err := v.extract(f, isFeed, open)
		if err != nil {
			return report, err
		}
		report.FilesChecked++
		report.LinksChecked += len(found)

		for _, l := range found {
			if reason, bad := v.check(l, isFeed, existing); bad {
				issue := Issue{File: f, Tag: l.Tag, URL: l.URL, Reason: reason}
				v.logger.Debug("Link issue", logfields.Path(f), logfields.URL(l.URL), slog.String("reason", string(reason)))
				report.Issues = append(report.Issues, issue)
			}
		}
	}
	return report, nil
}

func (v *Verifier) extract(sitePath string, isFeed bool, open func(string) (io.ReadCloser, error)) ([]Link, error) {
	rc, err := open(sitePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", sitePath, err)
	}
	defer func() {
		_ = rc.Close()
	}()
	if isFeed {
		return ExtractFeedLinks(rc)
	}
	return ExtractLinksFromReader(rc)
}

func (v *Verifier) check(l Link, isFeed bool, existing map[string]struct{}) (Reason, bool) {
	if isFeed {
		if !links.HasScheme(l.URL) {
			return ReasonFeedNotAbsolute, true
		}
		return "", false
	}
	if skippable(l.URL) || links.HasScheme(l.URL) {
		return "", false
	}

	rootRelative := strings.HasPrefix(l.URL, "/") && !strings.HasPrefix(l.URL, "//")
	if !rootRelative {
		if strings.Contains(l.URL, strings.TrimPrefix(v.categoryPrefix, "/")) {
			return ReasonCategoryNotRootRelative, true
		}
		return "", false
	}
	if !resolves(l.URL, existing) {
		return ReasonBrokenInternal, true
	}
	return "", false
}

// resolves reports whether a root-relative URL names a written file or a
// directory with an index.
func resolves(raw string, existing map[string]struct{}) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	p := path.Clean(u.Path)
	candidates := []string{p, path.Join(p, "index.html"), path.Join(p, "index.xml")}
	for _, c := range candidates {
		if _, ok := existing[c]; ok {
			return true
		}
	}
	return false
}
