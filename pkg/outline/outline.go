package outline

import (
	"time"

	"github.com/matzehuels/feedtree/pkg/ident"
)

// FeedType is the type attribute recorded on every new feed subscription.
const FeedType = "atom"

// Node is an element of the subscription tree: a *Category or a *Feed.
type Node interface {
	Title() string
	node()
}

// Category is a titled, ordered container of nodes.
type Category struct {
	Text     string
	Children []Node
}

// Feed is a subscription leaf. Its identifier is derived from XMLURL and
// is never stored.
type Feed struct {
	Type    string
	Label   string
	XMLURL  string
	HTMLURL string
}

// Outline is a whole subscription tree with its head metadata.
type Outline struct {
	Title    string
	Created  time.Time
	Modified time.Time
	Root     *Category
}

// New returns an empty outline created now.
func New() *Outline {
	now := time.Now().UTC().Truncate(time.Second)
	return &Outline{Created: now, Modified: now, Root: &Category{}}
}

func (c *Category) node() {}
func (f *Feed) node()     {}

// Title returns the category's text.
func (c *Category) Title() string { return c.Text }

// Title returns the feed's display title.
func (f *Feed) Title() string { return f.Label }

// ID returns the feed identifier, the hash of its source URL.
func (f *Feed) ID() string { return ident.ID(f.XMLURL) }

// Append adds n as the last child of c.
func (c *Category) Append(n Node) {
	c.Children = append(c.Children, n)
}

// Remove deletes the child that is n itself (pointer identity) and
// reports whether it was present. Siblings that merely share a title are
// left alone.
func (c *Category) Remove(n Node) bool {
	for i, child := range c.Children {
		if child == n {
			c.Children = append(c.Children[:i:i], c.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Categories returns the direct child categories of c, in order.
func (c *Category) Categories() []*Category {
	var out []*Category
	for _, child := range c.Children {
		if sub, ok := child.(*Category); ok {
			out = append(out, sub)
		}
	}
	return out
}

// Feeds returns every feed under c, in depth-first preorder: children in
// order, descending into each category as it is reached.
func Feeds(c *Category) []*Feed {
	var out []*Feed
	var walk func(*Category)
	walk = func(cat *Category) {
		for _, child := range cat.Children {
			switch n := child.(type) {
			case *Feed:
				out = append(out, n)
			case *Category:
				walk(n)
			}
		}
	}
	walk(c)
	return out
}

// FindFeed returns the path of every category under root that directly
// contains a feed whose ID is feedID. Root itself is reported as "/".
// Paths are slash-joined category titles.
func FindFeed(root *Category, feedID string) []string {
	var out []string
	var walk func(*Category, []string)
	walk = func(cat *Category, parents []string) {
		for _, child := range cat.Children {
			if f, ok := child.(*Feed); ok && f.ID() == feedID {
				out = append(out, JoinPath(parents))
				break
			}
		}
		for _, sub := range cat.Categories() {
			walk(sub, append(parents[:len(parents):len(parents)], sub.Text))
		}
	}
	walk(root, nil)
	return out
}

// Walk calls fn for every node under c in depth-first preorder with the
// titles of its enclosing categories. Returning false from fn skips the
// subtree of a category.
func Walk(c *Category, fn func(parents []string, n Node) bool) {
	var walk func(*Category, []string)
	walk = func(cat *Category, parents []string) {
		for _, child := range cat.Children {
			descend := fn(parents, child)
			if sub, ok := child.(*Category); ok && descend {
				walk(sub, append(parents[:len(parents):len(parents)], sub.Text))
			}
		}
	}
	walk(c, nil)
}
