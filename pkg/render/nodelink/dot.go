package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/feedtree/pkg/outline"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the source URL and identifier to feed labels.
	// When false, only the feed title is shown.
	Detailed bool
}

const rootID = "category:/"

// ToDOT converts an outline to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(o *outline.Outline, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	title := o.Title
	if title == "" {
		title = "feeds"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightgrey];\n", rootID, title)

	seen := map[string]bool{rootID: true}
	var edges []string
	outline.Walk(o.Root, func(parents []string, n outline.Node) bool {
		from := categoryID(parents)
		var to string
		switch n := n.(type) {
		case *outline.Category:
			to = categoryID(append(parents, n.Text))
			if !seen[to] {
				fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightyellow];\n", to, n.Text)
			}
		case *outline.Feed:
			to = "feed:" + n.ID()
			if !seen[to] {
				fmt.Fprintf(&buf, "  %q [label=%q];\n", to, feedLabel(n, opts.Detailed))
			}
		}
		seen[to] = true
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", from, to))
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func categoryID(path []string) string {
	if len(path) == 0 {
		return rootID
	}
	return "category:" + outline.JoinPath(path)
}

func feedLabel(f *outline.Feed, detailed bool) string {
	label := f.Label
	if label == "" {
		label = f.XMLURL
	}
	if !detailed {
		return label
	}
	return strings.Join([]string{label, f.XMLURL, f.ID()[:12]}, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
