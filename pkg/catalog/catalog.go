package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/feed"
	"github.com/matzehuels/feedtree/pkg/observability"
	"github.com/matzehuels/feedtree/pkg/outline"
	"github.com/matzehuels/feedtree/pkg/store"
)

// DefaultOutlineName is the outline file name inside the repository.
const DefaultOutlineName = "earthreader.opml"

// Config locates the repository.
type Config struct {
	// Repository is the directory holding the outline.
	Repository string

	// OutlineName is the outline file name. Empty means DefaultOutlineName.
	OutlineName string
}

// Discoverer resolves a user-supplied URL to a parsed feed and the URL the
// feed was read from. *discovery.Pipeline implements it.
type Discoverer interface {
	Discover(ctx context.Context, url string) (*feed.Document, string, error)
}

// Catalog implements the catalog operations over one repository.
type Catalog struct {
	cfg        Config
	store      store.Store
	discoverer Discoverer
	logger     *log.Logger
}

// New creates a Catalog. A nil logger uses log.Default().
func New(cfg Config, st store.Store, d Discoverer, logger *log.Logger) *Catalog {
	if cfg.OutlineName == "" {
		cfg.OutlineName = DefaultOutlineName
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{cfg: cfg, store: st, discoverer: d, logger: logger}
}

// OutlinePath returns the path of the outline file.
func (c *Catalog) OutlinePath() string {
	return filepath.Join(c.cfg.Repository, c.cfg.OutlineName)
}

// Store returns the document store.
func (c *Catalog) Store() store.Store {
	return c.store
}

// Init creates an empty outline when none exists. It is safe to call on an
// existing repository.
func (c *Catalog) Init(ctx context.Context) (err error) {
	defer c.observe(ctx, "init", "")(&err)

	if _, err := outline.LoadOrCreate(c.OutlinePath()); err != nil {
		return ferrors.Internal(err, "cannot create outline")
	}
	return nil
}

// Outline returns the current outline. It fails with OPML_NOT_FOUND when
// the repository has none.
func (c *Catalog) Outline(ctx context.Context) (_ *outline.Outline, err error) {
	defer c.observe(ctx, "outline", "")(&err)
	return c.load()
}

// load reads the outline, failing with OPML_NOT_FOUND when none exists.
func (c *Catalog) load() (*outline.Outline, error) {
	o, err := outline.Load(c.OutlinePath())
	if errors.Is(err, outline.ErrNotFound) {
		return nil, ferrors.Wrap(ferrors.ErrCodeOpmlNotFound, err, "cannot open OPML")
	}
	if err != nil {
		return nil, ferrors.Internal(err, "cannot read outline")
	}
	return o, nil
}

// loadOrCreate reads the outline, bootstrapping an empty one first.
func (c *Catalog) loadOrCreate() (*outline.Outline, error) {
	o, err := outline.LoadOrCreate(c.OutlinePath())
	if err != nil {
		return nil, ferrors.Internal(err, "cannot read outline")
	}
	return o, nil
}

func (c *Catalog) save(o *outline.Outline) error {
	if err := o.Save(c.OutlinePath()); err != nil {
		return ferrors.Internal(err, "cannot save outline")
	}
	return nil
}

// resolve maps a slash-separated path to its category.
func resolve(o *outline.Outline, path string) (*outline.Category, error) {
	cat, _, err := outline.Resolve(o.Root, outline.SplitPath(path), false)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeCategoryPathInvalid, err, "given category path is not valid: %q", path)
	}
	return cat, nil
}

// document reads a stored document, mapping a miss to FEED_NOT_FOUND.
func (c *Catalog) document(ctx context.Context, feedID string) (*feed.Document, error) {
	doc, err := c.store.Get(ctx, feedID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ferrors.Wrap(ferrors.ErrCodeFeedNotFound, err, "given feed does not exist")
	}
	if err != nil {
		return nil, ferrors.Internal(err, "cannot read feed %s", feedID)
	}
	return doc, nil
}

func (c *Catalog) observe(ctx context.Context, op, path string) func(*error) {
	hooks := observability.Catalog()
	hooks.OnOperationStart(ctx, op, path)
	start := time.Now()
	return func(errp *error) {
		hooks.OnOperationComplete(ctx, op, path, time.Since(start), *errp)
	}
}
