// Package linkverify audits the links of a rendered site.
package linkverify

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

// Link is one link found in an output file.
type Link struct {
	URL       string // The URL or path, as written
	Text      string // Link text, or rel for <link>
	Tag       string // Element name (a, link, img, guid, ...)
	Attribute string // Attribute holding the link; empty for element text
}

// ExtractLinksFromReader returns the links of an HTML document.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryLinks, "failed to parse HTML").Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	var attr, text string
	switch n.Data {
	case "a":
		attr, text = "href", extractText(n)
	case "link":
		attr, text = "href", getAttr(n, "rel")
	case "img":
		attr, text = "src", getAttr(n, "alt")
	case "script", "video", "audio", "source", "iframe":
		attr = "src"
	default:
		return Link{}, false
	}
	v := getAttr(n, attr)
	if v == "" {
		return Link{}, false
	}
	return Link{URL: v, Text: text, Tag: n.Data, Attribute: attr}, true
}

// ExtractFeedLinks returns the links of an RSS document: the text of every
// <link>, permalink GUIDs and the href of atom:link.
func ExtractFeedLinks(r io.Reader) ([]Link, error) {
	dec := xml.NewDecoder(r)
	var links []Link
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return links, nil
		}
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryLinks, "failed to parse feed").Build()
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case start.Name.Local == "link" && start.Name.Space == atomNamespace:
			if href := xmlAttr(start, "href"); href != "" {
				links = append(links, Link{URL: href, Text: xmlAttr(start, "rel"), Tag: "atom:link", Attribute: "href"})
			}
		case start.Name.Local == "link":
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryLinks, "failed to parse feed link").Build()
			}
			links = append(links, Link{URL: strings.TrimSpace(text), Tag: "link"})
		case start.Name.Local == "guid" && !strings.EqualFold(xmlAttr(start, "isPermaLink"), "false"):
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryLinks, "failed to parse feed guid").Build()
			}
			links = append(links, Link{URL: strings.TrimSpace(text), Tag: "guid"})
		}
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func xmlAttr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}

// skippable reports links that never point at a site path.
func skippable(u string) bool {
	for _, prefix := range []string{"#", "mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return u == ""
}
