package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feedtree/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version and the
// version command. Empty values leave the defaults in place.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, buildinfo.String())
			return nil
		},
	}
}

// skipConfig replaces the root hook for commands that never open the
// repository, so a broken configuration does not block them.
func skipConfig(*cobra.Command, []string) error {
	return nil
}
