// Package render draws feed catalogs.
//
// The [nodelink] subpackage renders the subscription outline as a
// node-link diagram using Graphviz: categories are folders, feeds are
// boxes, and a feed subscribed from several categories is drawn once with
// an edge from each.
//
//	dot := nodelink.ToDOT(o, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/feedtree/pkg/render/nodelink
package render
