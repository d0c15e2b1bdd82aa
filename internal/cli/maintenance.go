package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/feedtree/pkg/catalog"
	ferrors "github.com/matzehuels/feedtree/pkg/errors"
)

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored documents no feed subscribes to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			orphans, err := cat.Prune(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			if len(orphans) == 0 {
				printInfo("Nothing to prune")
				return nil
			}

			verb := "Deleted"
			if dryRun {
				verb = "Would delete"
			}
			printSuccess("%s %d orphaned documents", verb, len(orphans))
			for _, id := range orphans {
				printDetail("%s", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphaned documents without deleting them")
	return cmd
}

// refreshCommand creates the refresh command.
func (c *CLI) refreshCommand() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch every subscribed feed again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if !cmd.Flags().Changed("jobs") {
				jobs = c.cfg.RefreshJobs
			}

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(cmd.Context(), "Refreshing feeds")
			spinner.Start()
			report, err := cat.Refresh(cmd.Context(), jobs)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Refreshed %d feeds", len(report.Refreshed)))

			if len(report.Failed) == 0 {
				printSuccess("All %d feeds refreshed", len(report.Refreshed))
				return nil
			}
			printFailures(report.Failed)
			return fmt.Errorf("%d of %d feeds failed to refresh", len(report.Failed), len(report.Failed)+len(report.Refreshed))
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", catalog.DefaultJobs, "feeds fetched at once")
	return cmd
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the outline as OPML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if output == "" {
				return cat.Export(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := cat.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported outline")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		in   string
		jobs int
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge the feeds of an OPML file into a category",
		Long: `Merge the feeds of an OPML file into a category.

Every imported feed is fetched before it is added. Feeds that cannot be
fetched are reported and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if !cmd.Flags().Changed("jobs") {
				jobs = c.cfg.RefreshJobs
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Importing "+args[0])
			spinner.Start()
			report, err := cat.Import(cmd.Context(), in, f, jobs)
			spinner.Stop()
			if err != nil {
				return err
			}

			printSuccess("Imported %d feeds and %d categories", report.Feeds, report.Categories)
			if len(report.Failed) > 0 {
				printFailures(report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "category path to import into")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", catalog.DefaultJobs, "feeds fetched at once")
	return cmd
}

// printFailures lists failed feeds in a stable order.
func printFailures(failed map[string]error) {
	keys := lo.Keys(failed)
	sort.Strings(keys)

	printWarning("%d feeds failed", len(failed))
	for _, k := range keys {
		printDetail("%s: %s", k, ferrors.UserMessage(failed[k]))
	}
}
