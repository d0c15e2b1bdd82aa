// Package outline models the subscription tree of a feed catalog and its
// persisted OPML form.
//
// An [Outline] has a root [Category]; a category holds an ordered list of
// [Node] values, each either a nested *Category or a *Feed subscription.
// Feeds are leaves. Paths through the tree are sequences of category
// titles, resolved with [Resolve]:
//
//	root, err := outline.Load("repo/earthreader.opml")
//	cat, _, err := outline.Resolve(root.Root, outline.SplitPath("news/tech"), false)
//	for _, f := range outline.Feeds(cat) {
//	    fmt.Println(f.Title, f.ID())
//	}
//
// Titles are not unique: two sibling categories may share a title, in which
// case path resolution always descends into the first one. Mutations match
// nodes by identity ([Category.Remove]) rather than by title.
package outline
