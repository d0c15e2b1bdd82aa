package catalog

import (
	"context"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/outline"
)

// AddFeed subscribes the category at path to the feed found at url, which
// may be a feed or an HTML page advertising one. The document is stored
// under the identifier of the discovered feed URL before the outline is
// saved. A url that is not an absolute http(s) URL is unreachable and
// never reaches the network.
func (c *Catalog) AddFeed(ctx context.Context, path, url string) (_ *outline.Feed, err error) {
	defer c.observe(ctx, "add-feed", path)(&err)

	if err := ferrors.ValidateURL(url); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeUnreachableURL, err, "cannot connect to %q: %s", url, ferrors.UserMessage(err))
	}
	o, err := c.loadOrCreate()
	if err != nil {
		return nil, err
	}
	cat, err := resolve(o, path)
	if err != nil {
		return nil, err
	}

	doc, feedURL, err := c.discoverer.Discover(ctx, url)
	if err != nil {
		return nil, ferrors.Internal(err, "cannot discover %s", url)
	}
	f := &outline.Feed{
		Type:    outline.FeedType,
		Label:   doc.Title,
		XMLURL:  feedURL,
		HTMLURL: doc.BlogURL(),
	}

	if err := c.store.Put(ctx, f.ID(), doc); err != nil {
		return nil, ferrors.Internal(err, "cannot store feed %s", feedURL)
	}
	cat.Append(f)
	if err := c.save(o); err != nil {
		return nil, err
	}

	c.logger.Info("added feed", "id", f.ID(), "url", feedURL, "path", outline.JoinPath(outline.SplitPath(path)))
	return f, nil
}

// AddCategory appends an empty category titled title to the category at
// path.
func (c *Catalog) AddCategory(ctx context.Context, path, title string) (_ *outline.Category, err error) {
	defer c.observe(ctx, "add-category", path)(&err)

	if err := ferrors.ValidateTitle(title); err != nil {
		return nil, err
	}
	o, err := c.loadOrCreate()
	if err != nil {
		return nil, err
	}
	parent, err := resolve(o, path)
	if err != nil {
		return nil, err
	}

	cat := &outline.Category{Text: title}
	parent.Append(cat)
	if err := c.save(o); err != nil {
		return nil, err
	}
	c.logger.Info("added category", "title", title, "path", outline.JoinPath(outline.SplitPath(path)))
	return cat, nil
}

// DeleteFeed unsubscribes the category at path from the feed feedID. Only
// direct children are considered; if several match, the last one is
// removed. The stored document is deleted once no category references
// the feed anymore.
func (c *Catalog) DeleteFeed(ctx context.Context, path, feedID string) (err error) {
	defer c.observe(ctx, "delete-feed", path)(&err)

	o, err := c.load()
	if err != nil {
		return err
	}
	cat, err := resolve(o, path)
	if err != nil {
		return err
	}

	var target *outline.Feed
	for _, n := range cat.Children {
		if f, ok := n.(*outline.Feed); ok && f.ID() == feedID {
			target = f
		}
	}
	if target == nil {
		return ferrors.New(ferrors.ErrCodeFeedNotFoundInPath, "given feed does not exist in the path")
	}

	cat.Remove(target)
	if err := c.save(o); err != nil {
		return err
	}
	c.logger.Info("removed feed", "id", feedID, "path", outline.JoinPath(outline.SplitPath(path)))

	if refs := outline.FindFeed(o.Root, feedID); len(refs) > 0 {
		c.logger.Debug("feed still referenced", "id", feedID, "paths", refs)
		return nil
	}
	if err := c.store.Delete(ctx, feedID); err != nil {
		return ferrors.Internal(err, "cannot delete feed %s", feedID)
	}
	c.logger.Debug("deleted document", "id", feedID)
	return nil
}

// DeleteCategory removes every category titled with the last segment of
// path from the category named by the preceding segments. Documents of
// feeds beneath the removed categories are left in the store. A final
// segment that matches nothing still rewrites the outline.
func (c *Catalog) DeleteCategory(ctx context.Context, path string) (err error) {
	defer c.observe(ctx, "delete-category", path)(&err)

	o, err := c.loadOrCreate()
	if err != nil {
		return err
	}
	parent, target, err := outline.Resolve(o.Root, outline.SplitPath(path), true)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeCategoryPathInvalid, err, "given category path is not valid: %q", path)
	}

	removed := 0
	for _, sub := range parent.Categories() {
		if sub.Text == target && parent.Remove(sub) {
			removed++
		}
	}
	if err := c.save(o); err != nil {
		return err
	}
	c.logger.Info("removed category", "path", path, "removed", removed)
	return nil
}
