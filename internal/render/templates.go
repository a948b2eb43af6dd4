package render

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{if .PageTitle}}{{.PageTitle}} | {{end}}{{.Site.Title}}</title>
    <link rel="alternate" type="application/rss+xml" title="{{.Site.Title}}" href="{{.Site.FeedHref}}">
    <style>
        body { font-family: Georgia, serif; max-width: 760px; margin: 0 auto; padding: 20px; color: #222; }
        header { border-bottom: 1px solid #ddd; margin-bottom: 24px; }
        .meta { color: #666; font-size: 14px; }
        .categories a { margin-right: 8px; }
        ul.posts { list-style: none; padding: 0; }
        ul.posts li { margin: 8px 0; }
    </style>
</head>
<body>
<header><a href="{{.Site.BlogHref}}">{{.Site.Title}}</a></header>
<main>
{{template "content" .}}
</main>
</body>
</html>
{{end}}`

const permapageTemplate = `{{define "content"}}<article class="post">
    <h1><a href="{{.Post.Href}}">{{.Post.Title}}</a></h1>
    <p class="meta"><time datetime="{{.Post.ISODate}}">{{.Post.HumanDate}}</time></p>
    {{- if .Post.Categories}}
    <p class="categories">Categories:{{range .Post.Categories}} <a href="{{.URL}}">{{.Name}}</a>{{end}}</p>
    {{- end}}
    <div class="body">
{{.Post.Body}}
    </div>
</article>{{end}}`

const listTemplate = `{{define "content"}}<h1>{{.Heading}}</h1>
{{- if .FeedHref}}
<p><a href="{{.FeedHref}}">RSS</a></p>
{{- end}}
<ul class="posts">
{{- range .Posts}}
    <li><time datetime="{{.ISODate}}">{{.HumanDate}}</time> <a href="{{.Href}}">{{.Title}}</a>
    {{- range .Categories}} <a class="category" href="{{.URL}}">{{.Name}}</a>{{end}}</li>
{{- end}}
</ul>{{end}}`
