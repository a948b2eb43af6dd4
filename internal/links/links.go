// Package links renders resolved site paths into the form an output document
// needs: root-relative for pages, fully qualified for syndication feeds.
package links

import "strings"

// Mode selects how a path is emitted.
type Mode string

const (
	// Relative leaves a path root-relative (in-site pages).
	Relative Mode = "relative"
	// Absolute prefixes the site URL (feeds).
	Absolute Mode = "absolute"
)

// Link is a resolved path plus the mode it should be emitted in.
type Link struct {
	Path string
	Mode Mode
}

// Href renders the link against siteURL.
func (l Link) Href(siteURL string) string {
	return Qualify(l.Path, l.Mode, siteURL)
}

// Qualify renders path in the requested mode.
//
// Relative returns path unchanged. Absolute returns path unchanged when it
// already carries an http(s) scheme, otherwise joins siteURL and path with
// exactly one slash.
func Qualify(path string, mode Mode, siteURL string) string {
	if mode != Absolute {
		return path
	}
	if HasScheme(path) {
		return path
	}
	base := strings.TrimRight(siteURL, "/")
	rest := strings.TrimLeft(path, "/")
	return base + "/" + rest
}

// HasScheme reports whether s starts with http:// or https://, ignoring case.
func HasScheme(s string) bool {
	return hasPrefixFold(s, "http://") || hasPrefixFold(s, "https://")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
