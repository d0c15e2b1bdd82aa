package catalog

import (
	"context"
	"io"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/outline"
)

// DefaultJobs is the fetch concurrency used when a caller passes zero.
const DefaultJobs = 4

// Prune deletes stored documents that no feed in the outline references.
// With dryRun, nothing is deleted. It returns the orphaned ids.
func (c *Catalog) Prune(ctx context.Context, dryRun bool) (_ []string, err error) {
	defer c.observe(ctx, "prune", "")(&err)

	o, err := c.load()
	if err != nil {
		return nil, err
	}
	stored, err := c.store.List(ctx)
	if err != nil {
		return nil, ferrors.Internal(err, "cannot list documents")
	}

	referenced := lo.SliceToMap(outline.Feeds(o.Root), func(f *outline.Feed) (string, struct{}) {
		return f.ID(), struct{}{}
	})
	orphans := lo.Filter(stored, func(id string, _ int) bool {
		_, ok := referenced[id]
		return !ok
	})

	if dryRun {
		return orphans, nil
	}
	for _, id := range orphans {
		if err := c.store.Delete(ctx, id); err != nil {
			return nil, ferrors.Internal(err, "cannot delete document %s", id)
		}
		c.logger.Debug("pruned document", "id", id)
	}
	c.logger.Info("pruned documents", "count", len(orphans))
	return orphans, nil
}

// RefreshReport lists the outcome of a [Catalog.Refresh].
type RefreshReport struct {
	Refreshed []string
	Failed    map[string]error
}

// Refresh re-fetches every subscribed feed and rewrites its document
// whole. Up to jobs feeds are fetched at once. A feed that fails is
// reported and keeps its previous document; nothing is retried.
func (c *Catalog) Refresh(ctx context.Context, jobs int) (_ *RefreshReport, err error) {
	defer c.observe(ctx, "refresh", "")(&err)

	o, err := c.load()
	if err != nil {
		return nil, err
	}
	feeds := lo.UniqBy(outline.Feeds(o.Root), func(f *outline.Feed) string { return f.ID() })

	report := &RefreshReport{Failed: make(map[string]error)}
	var mu sync.Mutex
	c.fetchAll(ctx, feeds, jobs, func(f *outline.Feed, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed[f.ID()] = err
			c.logger.Warn("refresh failed", "id", f.ID(), "url", f.XMLURL, "err", ferrors.UserMessage(err))
			return
		}
		report.Refreshed = append(report.Refreshed, f.ID())
	})
	if err := ctx.Err(); err != nil {
		return report, ferrors.Internal(err, "refresh interrupted")
	}
	c.logger.Info("refreshed feeds", "ok", len(report.Refreshed), "failed", len(report.Failed))
	return report, nil
}

// fetchAll fetches and stores the document of every feed, calling done
// once per feed. Documents are stored under the feed's own id.
func (c *Catalog) fetchAll(ctx context.Context, feeds []*outline.Feed, jobs int, done func(*outline.Feed, error)) {
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	var g errgroup.Group
	g.SetLimit(jobs)
	for _, f := range feeds {
		g.Go(func() error {
			if ctx.Err() != nil {
				done(f, ctx.Err())
				return nil
			}
			doc, _, err := c.discoverer.Discover(ctx, f.XMLURL)
			if err == nil {
				err = c.store.Put(ctx, f.ID(), doc)
			}
			done(f, err)
			return nil
		})
	}
	_ = g.Wait()
}

// ImportReport lists the outcome of a [Catalog.Import].
type ImportReport struct {
	Categories int
	Feeds      int
	Failed     map[string]error
}

// Import merges the tree of an OPML document into the category at path.
// Every imported feed is fetched and stored first; feeds that cannot be
// fetched are left out of the merged tree and reported. Feeds already
// stored are not fetched again.
func (c *Catalog) Import(ctx context.Context, path string, r io.Reader, jobs int) (_ *ImportReport, err error) {
	defer c.observe(ctx, "import", path)(&err)

	in, err := outline.Read(r)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "cannot read OPML")
	}
	o, err := c.loadOrCreate()
	if err != nil {
		return nil, err
	}
	cat, err := resolve(o, path)
	if err != nil {
		return nil, err
	}

	var missing []*outline.Feed
	for _, f := range lo.UniqBy(outline.Feeds(in.Root), func(f *outline.Feed) string { return f.ID() }) {
		ok, err := c.store.Exists(ctx, f.ID())
		if err != nil {
			return nil, ferrors.Internal(err, "cannot check feed %s", f.XMLURL)
		}
		if !ok {
			missing = append(missing, f)
		}
	}

	report := &ImportReport{Failed: make(map[string]error)}
	var mu sync.Mutex
	c.fetchAll(ctx, missing, jobs, func(f *outline.Feed, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		report.Failed[f.XMLURL] = err
		c.logger.Warn("import fetch failed", "url", f.XMLURL, "err", ferrors.UserMessage(err))
	})
	if err := ctx.Err(); err != nil {
		return nil, ferrors.Internal(err, "import interrupted")
	}

	for _, n := range prune(in.Root.Children, report.Failed) {
		cat.Append(n)
		countNodes(n, report)
	}
	if err := c.save(o); err != nil {
		return nil, err
	}
	c.logger.Info("imported outline", "feeds", report.Feeds, "categories", report.Categories, "failed", len(report.Failed))
	return report, nil
}

// prune returns nodes without the feeds whose source URL failed. Removed
// feeds are dropped in place from their categories.
func prune(nodes []outline.Node, failed map[string]error) []outline.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		switch n := n.(type) {
		case *outline.Feed:
			if _, bad := failed[n.XMLURL]; bad {
				continue
			}
			if n.Type == "" {
				n.Type = outline.FeedType
			}
		case *outline.Category:
			n.Children = prune(n.Children, failed)
		}
		out = append(out, n)
	}
	return out
}

func countNodes(n outline.Node, report *ImportReport) {
	switch n := n.(type) {
	case *outline.Feed:
		report.Feeds++
	case *outline.Category:
		report.Categories++
		for _, child := range n.Children {
			countNodes(child, report)
		}
	}
}

// Export writes the outline as OPML.
func (c *Catalog) Export(ctx context.Context, w io.Writer) (err error) {
	defer c.observe(ctx, "export", "")(&err)

	o, err := c.load()
	if err != nil {
		return err
	}
	if err := outline.Write(w, o); err != nil {
		return ferrors.Internal(err, "cannot write outline")
	}
	return nil
}
