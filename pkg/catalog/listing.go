package catalog

import (
	"context"
	"time"

	"github.com/samber/lo"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/ident"
	"github.com/matzehuels/feedtree/pkg/outline"
)

// Item is a node of a feed listing.
type Item struct {
	Title string

	// Path is the category path the item lives in, excluding the item
	// itself. It is empty for top-level items.
	Path []string

	// Feed fields; FeedID is empty for categories.
	FeedID  string
	XMLURL  string
	HTMLURL string

	// Children holds the listing of a category. It is nil for feeds.
	Children []Item
}

// IsCategory reports whether the item is a category.
func (i Item) IsCategory() bool {
	return i.FeedID == ""
}

// CategoryPath returns the path of a category item including itself.
func (i Item) CategoryPath() []string {
	return append(i.Path[:len(i.Path):len(i.Path)], i.Title)
}

// EntryList is the entries of a feed or of every feed under a category.
type EntryList struct {
	Title   string
	Entries []EntrySummary
}

// EntrySummary describes one entry in an [EntryList]. Updated is the
// entry's publication time.
type EntrySummary struct {
	Title   string
	FeedID  string
	EntryID string
	Link    string
	Updated time.Time
}

// Entry is the content of a single entry. Updated is the entry's last
// modification time.
type Entry struct {
	Title   string
	Link    string
	Content string
	Updated time.Time
}

// ListFeeds returns the listing of the category at path. An empty path
// lists the whole tree.
func (c *Catalog) ListFeeds(ctx context.Context, path string) (_ []Item, err error) {
	defer c.observe(ctx, "list-feeds", path)(&err)

	o, err := c.load()
	if err != nil {
		return nil, err
	}
	cat, err := resolve(o, path)
	if err != nil {
		return nil, err
	}
	return items(cat, outline.SplitPath(path)), nil
}

func items(cat *outline.Category, path []string) []Item {
	out := make([]Item, 0, len(cat.Children))
	for _, n := range cat.Children {
		switch n := n.(type) {
		case *outline.Feed:
			out = append(out, Item{
				Title:   n.Label,
				Path:    path,
				FeedID:  n.ID(),
				XMLURL:  n.XMLURL,
				HTMLURL: n.HTMLURL,
			})
		case *outline.Category:
			sub := append(path[:len(path):len(path)], n.Text)
			out = append(out, Item{
				Title:    n.Text,
				Path:     path,
				Children: items(n, sub),
			})
		}
	}
	return out
}

// ListEntries returns the entries of the stored feed feedID. A non-empty
// path must name an existing category; the feed itself is looked up in
// the store regardless of where it is subscribed.
func (c *Catalog) ListEntries(ctx context.Context, path, feedID string) (_ *EntryList, err error) {
	defer c.observe(ctx, "list-entries", path)(&err)

	if err := c.checkPath(path); err != nil {
		return nil, err
	}
	doc, err := c.document(ctx, feedID)
	if err != nil {
		return nil, err
	}

	list := &EntryList{Title: doc.Title, Entries: make([]EntrySummary, 0, len(doc.Entries))}
	for _, e := range doc.Entries {
		list.Entries = append(list.Entries, summary(feedID, e.ID, e.Title, e.Link, e.PublishedAt))
	}
	return list, nil
}

// ListCategoryEntries returns the entries of every feed under the category
// at path, feed by feed in tree order. A feed subscribed more than once is
// listed at its first position only. Entries are not sorted across feeds.
func (c *Catalog) ListCategoryEntries(ctx context.Context, path string) (_ *EntryList, err error) {
	defer c.observe(ctx, "list-category-entries", path)(&err)

	o, err := c.load()
	if err != nil {
		return nil, err
	}
	cat, err := resolve(o, path)
	if err != nil {
		return nil, err
	}

	feeds := lo.UniqBy(outline.Feeds(cat), func(f *outline.Feed) string { return f.ID() })
	list := &EntryList{Title: path, Entries: []EntrySummary{}}
	for _, f := range feeds {
		doc, err := c.document(ctx, f.ID())
		if err != nil {
			return nil, err
		}
		for _, e := range doc.Entries {
			list.Entries = append(list.Entries, summary(f.ID(), e.ID, e.Title, e.Link, e.PublishedAt))
		}
	}
	return list, nil
}

// GetEntry returns the entry of feed feedID whose identifier is entryID.
func (c *Catalog) GetEntry(ctx context.Context, path, feedID, entryID string) (_ *Entry, err error) {
	defer c.observe(ctx, "get-entry", path)(&err)

	if err := c.checkPath(path); err != nil {
		return nil, err
	}
	doc, err := c.document(ctx, feedID)
	if err != nil {
		return nil, err
	}
	e, ok := doc.Entry(entryID)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeEntryNotFound, "given entry does not exist")
	}
	return &Entry{Title: e.Title, Link: e.Link, Content: e.Content, Updated: e.UpdatedAt}, nil
}

// checkPath verifies that a non-empty path names a category.
func (c *Catalog) checkPath(path string) error {
	if len(outline.SplitPath(path)) == 0 {
		return nil
	}
	o, err := c.load()
	if err != nil {
		return err
	}
	_, err = resolve(o, path)
	return err
}

func summary(feedID, id, title, link string, updated time.Time) EntrySummary {
	return EntrySummary{
		Title:   title,
		FeedID:  feedID,
		EntryID: ident.ID(id),
		Link:    link,
		Updated: updated,
	}
}
