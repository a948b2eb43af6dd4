package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/category"
	"git.home.luguber.info/inful/blogbuilder/internal/links"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	Description   string      `xml:"description"`
	Self          rssAtomLink `xml:"atom:link"`
	Generator     string      `xml:"generator"`
	LastBuildDate string      `xml:"lastBuildDate,omitempty"`
	Items         []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
	Description string   `xml:"description"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Feed renders the blog RSS feed with the newest blog_feed_size posts.
func (r *Renderer) Feed(posts []*post.Post, ix *category.Index) (Page, error) {
	return r.feed(r.feedPath(), r.cfg.SiteTitle, r.cfg.BlogPath+"/", posts, ix)
}

// CategoryFeed renders the RSS feed of one category.
func (r *Renderer) CategoryFeed(c category.Category, byID []*post.Post, ix *category.Index) (Page, error) {
	members, err := membersOf(c, byID)
	if err != nil {
		return Page{}, err
	}
	title := fmt.Sprintf("%s: %s", r.cfg.SiteTitle, c.Name)
	return r.feed(ix.FeedURL(c.Slug), title, ix.URL(c.Slug), members, ix)
}

// feed builds an RSS document whose every link is absolute.
func (r *Renderer) feed(feedPath, title, channelPath string, posts []*post.Post, ix *category.Index) (Page, error) {
	newest := post.SortNewestFirst(posts)
	if len(newest) > r.cfg.FeedSize {
		newest = newest[:r.cfg.FeedSize]
	}

	doc := rssDocument{
		Version: "2.0",
		AtomNS:  atomNamespace,
		Channel: rssChannel{
			Title:       title,
			Link:        links.Qualify(channelPath, r.feedMode, r.cfg.SiteURL),
			Description: r.cfg.SiteDescription,
			Self: rssAtomLink{
				Href: links.Qualify(feedPath, r.feedMode, r.cfg.SiteURL),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Generator: "blogbuilder",
		},
	}
	if len(newest) > 0 {
		doc.Channel.LastBuildDate = newest[0].Date.Format(time.RFC1123Z)
	}

	for _, p := range newest {
		pl := p.Permalink()
		if pl == nil {
			return Page{}, fmt.Errorf("post %s has no resolved permalink", p.SourcePath)
		}
		href := pl.Href(r.feedMode, r.cfg.SiteURL)
		item := rssItem{
			Title:       p.Title,
			Link:        href,
			GUID:        rssGUID{IsPermaLink: true, Value: href},
			PubDate:     p.Date.Format(time.RFC1123Z),
			Description: string(p.Body),
		}
		for _, ref := range ix.LinksFor(p.Categories) {
			item.Categories = append(item.Categories, ref.Name)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return Page{}, fmt.Errorf("encode feed %s: %w", feedPath, err)
	}
	buf.WriteByte('\n')
	return Page{Path: feedPath + "/index.xml", Kind: KindFeed, Content: buf.Bytes()}, nil
}
