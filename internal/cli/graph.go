package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feedtree/pkg/catalog"
	"github.com/matzehuels/feedtree/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command for drawing the outline.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the category tree as a node-link diagram",
		Long: `Draw the category tree as a node-link diagram.

Categories point at their children. A feed subscribed in several categories
is drawn once with an edge from each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("invalid format %q: must be %s or %s", format, formatDOT, formatSVG)
			}

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			data, err := renderGraph(cmd.Context(), cat, format, detailed)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show feed URLs and identifiers")

	return cmd
}

func renderGraph(ctx context.Context, cat *catalog.Catalog, format string, detailed bool) ([]byte, error) {
	o, err := cat.Outline(ctx)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(o, nodelink.Options{Detailed: detailed})
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return svg, nil
}
