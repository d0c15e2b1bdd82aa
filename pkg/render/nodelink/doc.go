// Package nodelink renders a subscription outline as a node-link diagram.
//
// # Usage
//
// Convert an outline to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(o, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: feed labels include the source URL and identifier
//
// # Node identity
//
// Category nodes are keyed by their path and feed nodes by their
// identifier, so two subscriptions to the same feed share one node.
// Sibling categories with the same title share a path and are therefore
// merged in the drawing.
package nodelink
