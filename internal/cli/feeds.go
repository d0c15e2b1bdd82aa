package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/outline"
)

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := cat.Init(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Repository ready")
			printFile(cat.OutlinePath())
			printNextStep("Subscribe to a feed", appName+" add feed <url>")
			return nil
		},
	}
}

// lsCommand creates the ls command.
func (c *CLI) lsCommand() *cobra.Command {
	var ids bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the categories and feeds under a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			items, err := cat.ListFeeds(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTree(outline.JoinPath(outline.SplitPath(path)), items, ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ids, "ids", false, "show feed identifiers")
	return cmd
}

// addCommand creates the add command with its feed and category subcommands.
func (c *CLI) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Subscribe to a feed or create a category",
	}

	cmd.AddCommand(c.addFeedCommand())
	cmd.AddCommand(c.addCategoryCommand())

	return cmd
}

func (c *CLI) addFeedCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "feed <url>",
		Short: "Subscribe to the feed at url, or the feed a web page advertises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			spinner := newSpinnerWithContext(cmd.Context(), "Fetching "+args[0])
			spinner.Start()
			f, err := cat.AddFeed(cmd.Context(), in, args[0])
			if err != nil {
				spinner.StopWithError(ferrors.UserMessage(err))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Subscribed to %s", StyleHighlight.Render(f.Label)))
			printKeyValue("feed", f.XMLURL)
			if f.HTMLURL != "" {
				printKeyValue("site", f.HTMLURL)
			}
			printKeyValue("id", f.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "category path to subscribe in")
	return cmd
}

func (c *CLI) addCategoryCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "category <title>",
		Short: "Create an empty category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := cat.AddCategory(cmd.Context(), in, args[0]); err != nil {
				return err
			}
			path := append(outline.SplitPath(in), args[0])
			printSuccess("Created category %s", StyleHighlight.Render(outline.JoinPath(path)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "parent category path")
	return cmd
}

// rmCommand creates the rm command with its feed and category subcommands.
func (c *CLI) rmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Unsubscribe from a feed or delete a category",
	}

	cmd.AddCommand(c.rmFeedCommand())
	cmd.AddCommand(c.rmCategoryCommand())

	return cmd
}

func (c *CLI) rmFeedCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "feed <feed-id>",
		Short: "Remove a feed from a category",
		Long:  "Remove a feed from a category. Its stored document is deleted once no category subscribes to it any more.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ferrors.ValidateID(args[0]); err != nil {
				return err
			}

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := cat.DeleteFeed(cmd.Context(), in, args[0]); err != nil {
				return err
			}
			printSuccess("Removed feed %s from %s", shortID(args[0]), outline.JoinPath(outline.SplitPath(in)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "category path the feed is in")
	return cmd
}

func (c *CLI) rmCategoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "category <path>",
		Short: "Delete every category at path",
		Long:  "Delete every category at path. Documents of the feeds it held are kept until the next prune.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := cat.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted category %s", StyleHighlight.Render(args[0]))
			printNextStep("Collect documents nothing subscribes to", appName+" prune")
			return nil
		},
	}
}
