package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse feeds and read entries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			items, err := cat.ListFeeds(cmd.Context(), "")
			if err != nil {
				return err
			}

			m := NewBrowseModel(cmd.Context(), cat, items)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}
}
