package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feedtree/internal/api"
)

// serveCommand creates the serve command for the JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if addr == "" {
				addr = c.cfg.ListenAddr
			}
			srv := api.New(cat, c.Logger)
			return srv.Serve(cmd.Context(), addr, func(a net.Addr) {
				printSuccess("Serving %s", StyleLink.Render("http://"+a.String()+"/feeds/"))
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from configuration)")
	return cmd
}
