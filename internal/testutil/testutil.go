// Package testutil holds fixtures shared by feedtree's package tests: small
// syndication documents in every supported format and an httptest site
// that serves them.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RSS2 returns an RSS 2.0 feed titled title whose channel link is blog.
// Two items are included, with guids "<blog>/1" and "<blog>/2".
func RSS2(title, blog string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%[1]s</title>
    <link>%[2]s</link>
    <description>test feed</description>
    <item>
      <title>First post</title>
      <link>%[2]s/1</link>
      <guid>%[2]s/1</guid>
      <pubDate>Mon, 02 Jan 2006 15:04:05 +0000</pubDate>
      <description>&lt;p&gt;first body&lt;/p&gt;</description>
    </item>
    <item>
      <title>Second post</title>
      <link>%[2]s/2</link>
      <guid>%[2]s/2</guid>
      <pubDate>Tue, 03 Jan 2006 15:04:05 +0000</pubDate>
      <description>&lt;p&gt;second body&lt;/p&gt;</description>
    </item>
  </channel>
</rss>
`, title, blog)
}

// Atom returns an Atom feed titled title with an alternate HTML link to
// blog and a single entry with id "urn:entry:<title>".
func Atom(title, blog string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>%[1]s</title>
  <link rel="alternate" type="text/html" href="%[2]s"/>
  <id>urn:feed:%[1]s</id>
  <updated>2013-08-19T07:49:20Z</updated>
  <entry>
    <title>Atom entry</title>
    <link href="%[2]s/atom-entry"/>
    <id>urn:entry:%[1]s</id>
    <updated>2013-08-19T07:49:20Z</updated>
    <content type="html">&lt;p&gt;atom body&lt;/p&gt;</content>
  </entry>
</feed>
`, title, blog)
}

// RSS1 returns an RSS 1.0 (RDF) feed titled title.
func RSS1(title, blog string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns="http://purl.org/rss/1.0/">
  <channel rdf:about="%[2]s">
    <title>%[1]s</title>
    <link>%[2]s</link>
    <description>test feed</description>
  </channel>
  <item rdf:about="%[2]s/rdf-1">
    <title>RDF item</title>
    <link>%[2]s/rdf-1</link>
    <dc:date>2006-01-02T15:04:05Z</dc:date>
    <description>rdf body</description>
  </item>
</rdf:RDF>
`, title, blog)
}

// HTMLPage returns an HTML page whose head advertises feedHref through a
// link rel="alternate" element. An empty feedHref yields a page with no
// discovery hint.
func HTMLPage(title, feedHref string) string {
	hint := ""
	if feedHref != "" {
		hint = fmt.Sprintf(`<link rel="alternate" type="application/rss+xml" title="%s" href="%s">`, title, feedHref)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="/style.css">
  %s
</head>
<body><p>hello</p></body>
</html>
`, title, hint)
}

// Page is a canned response served by a [Site].
type Page struct {
	ContentType string
	Body        string
	Status      int
}

// Site is an httptest server serving canned pages by path. It records how
// many times each path was requested.
type Site struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]Page
	hits  map[string]int
}

// NewSite starts a Site and registers its shutdown with t.
func NewSite(t testing.TB) *Site {
	t.Helper()
	s := &Site{pages: make(map[string]Page), hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers a page at path.
func (s *Site) Handle(path string, p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = p
}

// Feed registers an XML document at path.
func (s *Site) Feed(path, body string) {
	s.Handle(path, Page{ContentType: "application/xml; charset=utf-8", Body: body})
}

// HTML registers an HTML page at path.
func (s *Site) HTML(path, body string) {
	s.Handle(path, Page{ContentType: "text/html; charset=utf-8", Body: body})
}

// URL returns the absolute URL of path on the site.
func (s *Site) URL(path string) string {
	return s.Server.URL + path
}

// Hits returns how many requests path received.
func (s *Site) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	p, ok := s.pages[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	if p.Status != 0 {
		w.WriteHeader(p.Status)
	}
	_, _ = strings.NewReader(p.Body).WriteTo(w)
}
