package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed/atom"
	gofeedrss "github.com/mmcdole/gofeed/rss"
)

// ErrUnknownFormat is returned by [Parse] when data is not a recognizable
// syndication document.
var ErrUnknownFormat = errors.New("unknown feed format")

// Parse sniffs the format of data and parses it into a Document with the
// parser for that format.
//
// The feed's site link is recorded as an "alternate" "text/html" link so
// [Document.BlogURL] finds it. Entries keep their source order. An entry
// without an id falls back to its link, then to its title. An entry that
// carries only one of its publication and update times gets it for both.
func Parse(data []byte) (*Document, error) {
	format := Sniff(data)

	var (
		doc *Document
		err error
	)
	switch format {
	case FormatRSS2:
		doc, err = parseRSS2(data)
	case FormatRSS1:
		doc, err = parseRSS1(data)
	case FormatAtom:
		doc, err = parseAtom(data)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	doc.Format = format
	return doc, nil
}

// parseRSS2 reads RSS 2.0. The root element is <rss>, which is also how
// rss.Parse picks its RSS 2.0 parser.
func parseRSS2(data []byte) (*Document, error) {
	f, err := rss.Parse(data)
	if err != nil {
		return nil, err
	}

	doc := newDocument(f.Title, f.Link, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		content := item.Content
		if content == "" {
			content = item.Summary
		}
		doc.Entries = append(doc.Entries, newEntry(item.ID, item.Title, content, item.Link, item.Date, item.Date))
	}
	return doc, nil
}

func parseRSS1(data []byte) (*Document, error) {
	var p gofeedrss.Parser
	f, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	doc := newDocument(f.Title, f.Link, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		var id string
		if item.GUID != nil {
			id = item.GUID.Value
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		published := timeValue(item.PubDateParsed)
		if published.IsZero() && item.DublinCoreExt != nil && len(item.DublinCoreExt.Date) > 0 {
			published = parseDate(item.DublinCoreExt.Date[0])
		}
		doc.Entries = append(doc.Entries, newEntry(id, item.Title, content, item.Link, published, time.Time{}))
	}
	return doc, nil
}

func parseAtom(data []byte) (*Document, error) {
	var p atom.Parser
	f, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Title:   strings.TrimSpace(f.Title),
		Entries: make([]Entry, 0, len(f.Entries)),
	}
	for _, l := range f.Links {
		if l == nil || l.Href == "" {
			continue
		}
		doc.Links = append(doc.Links, atomLink(l))
	}
	for _, e := range f.Entries {
		if e == nil {
			continue
		}
		content := e.Summary
		if e.Content != nil && e.Content.Value != "" {
			content = e.Content.Value
		}
		doc.Entries = append(doc.Entries, newEntry(e.ID, e.Title, content, entryLink(e.Links),
			timeValue(e.PublishedParsed), timeValue(e.UpdatedParsed)))
	}
	return doc, nil
}

// atomLink converts an Atom link. A missing rel means "alternate"; an
// alternate link without a type points at the site's HTML page.
func atomLink(l *atom.Link) Link {
	out := Link{Relation: l.Rel, Mimetype: l.Type, URI: l.Href}
	if out.Relation == "" {
		out.Relation = RelAlternate
	}
	if out.Relation == RelAlternate && out.Mimetype == "" {
		out.Mimetype = MimeHTML
	}
	return out
}

// entryLink returns the first alternate link of an Atom entry, or its
// first link when none is marked alternate.
func entryLink(links []*atom.Link) string {
	first := ""
	for _, l := range links {
		if l == nil || l.Href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == RelAlternate {
			return l.Href
		}
		if first == "" {
			first = l.Href
		}
	}
	return first
}

func newDocument(title, link string, n int) *Document {
	doc := &Document{
		Title:   strings.TrimSpace(title),
		Entries: make([]Entry, 0, n),
	}
	if link != "" {
		doc.Links = append(doc.Links, Link{Relation: RelAlternate, Mimetype: MimeHTML, URI: link})
	}
	return doc
}

func newEntry(id, title, content, link string, published, updated time.Time) Entry {
	if id == "" {
		id = link
	}
	if id == "" {
		id = title
	}
	if published.IsZero() {
		published = updated
	}
	if updated.IsZero() {
		updated = published
	}
	return Entry{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Content:     content,
		Link:        link,
		PublishedAt: published.UTC(),
		UpdatedAt:   updated.UTC(),
	}
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func parseDate(s string) time.Time {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
