package outline_test

import (
	"fmt"

	"github.com/matzehuels/feedtree/pkg/outline"
)

func ExampleResolve() {
	o := outline.New()
	tech := &outline.Category{Text: "tech"}
	golang := &outline.Category{Text: "go"}
	tech.Append(golang)
	o.Root.Append(tech)

	blog := &outline.Feed{Type: "atom", Label: "The Go Blog", XMLURL: "https://go.dev/blog/feed.atom"}
	golang.Append(blog)
	o.Root.Append(blog)

	cat, _, err := outline.Resolve(o.Root, outline.SplitPath("tech/go"), false)
	fmt.Println(cat.Title(), err)

	parent, target, _ := outline.Resolve(o.Root, outline.SplitPath("tech/go"), true)
	fmt.Println(parent.Title(), target)

	_, _, err = outline.Resolve(o.Root, outline.SplitPath("tech/rust"), false)
	fmt.Println(err)

	fmt.Println(outline.FindFeed(o.Root, blog.ID()))
	// Output:
	// go <nil>
	// tech go
	// category path invalid
	// [/ tech/go]
}
