package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-shiori/dom"
	readability "github.com/go-shiori/go-readability"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/matzehuels/feedtree/pkg/catalog"
	ferrors "github.com/matzehuels/feedtree/pkg/errors"
)

// entriesOpts holds the command-line flags for the entries command.
type entriesOpts struct {
	in    string // category path
	since string // lower bound on publication time
	limit int    // maximum number of entries shown, 0 for all
	ids   bool   // show feed and entry identifiers
}

// entriesCommand creates the entries command.
func (c *CLI) entriesCommand() *cobra.Command {
	var opts entriesOpts

	cmd := &cobra.Command{
		Use:   "entries [feed-id]",
		Short: "List the entries of a feed, or of every feed in a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var since time.Time
			if opts.since != "" {
				t, err := parseSince(opts.since, time.Now())
				if err != nil {
					return err
				}
				since = t
			}
			if len(args) == 1 {
				if err := ferrors.ValidateID(args[0]); err != nil {
					return err
				}
			}

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			var list *catalog.EntryList
			if len(args) == 1 {
				list, err = cat.ListEntries(cmd.Context(), opts.in, args[0])
			} else {
				list, err = cat.ListCategoryEntries(cmd.Context(), opts.in)
			}
			if err != nil {
				return err
			}

			entries := filterEntries(list.Entries, since, opts.limit)
			writeEntries(cmd.OutOrStdout(), list.Title, entries, opts.ids)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.in, "in", "", "category path")
	cmd.Flags().StringVar(&opts.since, "since", "", `only entries published since a date ("2024-03-01", "Mar 1 2024 09:00") or a duration back from now ("48h")`)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "show at most n entries")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "show feed and entry identifiers")
	return cmd
}

// parseSince reads a --since value: a Go duration counted back from now,
// or any date layout dateparse understands.
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "cannot read date %q", s)
	}
	return t, nil
}

// filterEntries keeps entries published at or after since, up to limit.
// Entries without a publication date are kept.
func filterEntries(entries []catalog.EntrySummary, since time.Time, limit int) []catalog.EntrySummary {
	out := make([]catalog.EntrySummary, 0, len(entries))
	for _, e := range entries {
		if !since.IsZero() && !e.Updated.IsZero() && e.Updated.Before(since) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeEntries(w io.Writer, title string, entries []catalog.EntrySummary, ids bool) {
	if title != "" {
		fmt.Fprintln(w, StyleTitle.Render(title))
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, StyleDim.Render("no entries"))
		return
	}

	headers := []string{"Published", "Title"}
	if ids {
		headers = append(headers, "Feed", "Entry")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{formatDate(e.Updated), truncate(e.Title, 60)}
		if ids {
			row = append(row, e.FeedID, e.EntryID)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col >= 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})
	fmt.Fprintln(w, t.Render())
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		in   string
		text bool
	)

	cmd := &cobra.Command{
		Use:   "show <feed-id> <entry-id>",
		Short: "Print the content of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := ferrors.ValidateID(id); err != nil {
					return err
				}
			}

			cat, closeStore, err := c.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			e, err := cat.GetEntry(cmd.Context(), in, args[0], args[1])
			if err != nil {
				return err
			}

			content := e.Content
			if text {
				content, err = readableText(e.Content, e.Link)
				if err != nil {
					return err
				}
			}
			writeEntry(cmd.OutOrStdout(), e, content)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "category path")
	cmd.Flags().BoolVar(&text, "text", false, "print readable text instead of HTML")
	return cmd
}

// readableText extracts the readable text of an entry's HTML content.
// Fragments too short for readability fall back to their plain text.
func readableText(content, link string) (string, error) {
	var pageURL *url.URL
	if link != "" {
		pageURL, _ = url.Parse(link)
	}
	article, err := readability.FromReader(strings.NewReader(content), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return strings.TrimSpace(dom.TextContent(doc)), nil
}

func writeEntry(w io.Writer, e *catalog.Entry, content string) {
	fmt.Fprintln(w, StyleTitle.Render(e.Title))
	if e.Link != "" {
		fmt.Fprintln(w, StyleLink.Render(e.Link))
	}
	fmt.Fprintln(w, StyleDim.Render("updated "+formatDate(e.Updated)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, content)
}
