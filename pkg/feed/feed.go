package feed

import (
	"time"

	"github.com/matzehuels/feedtree/pkg/ident"
)

// Link relations and mimetypes used when building documents.
const (
	RelAlternate = "alternate"
	RelSelf      = "self"
	MimeHTML     = "text/html"
)

// Document is a parsed feed.
type Document struct {
	Title   string
	Format  Format
	Links   []Link
	Entries []Entry
}

// Link is an outbound link of a feed.
type Link struct {
	Relation string
	Mimetype string
	URI      string
}

// Entry is a single item of a feed.
type Entry struct {
	ID          string
	Title       string
	Content     string
	Link        string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// Key returns the identifier of the entry, derived from its id.
func (e Entry) Key() string {
	return ident.ID(e.ID)
}

// BlogURL returns the human-facing site link of the feed: the URI of the
// first link whose relation is "alternate" and mimetype "text/html".
// It returns "" when no link qualifies.
func (d *Document) BlogURL() string {
	for _, l := range d.Links {
		if l.Relation == RelAlternate && l.Mimetype == MimeHTML {
			return l.URI
		}
	}
	return ""
}

// Entry returns the first entry whose key equals entryID.
func (d *Document) Entry(entryID string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Key() == entryID {
			return e, true
		}
	}
	return Entry{}, false
}
