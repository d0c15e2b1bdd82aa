package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/feedtree/pkg/catalog"
	ferrors "github.com/matzehuels/feedtree/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// BrowseSource is the part of the catalog the browser reads.
type BrowseSource interface {
	ListEntries(ctx context.Context, path, feedID string) (*catalog.EntryList, error)
	ListCategoryEntries(ctx context.Context, path string) (*catalog.EntryList, error)
	GetEntry(ctx context.Context, path, feedID, entryID string) (*catalog.Entry, error)
}

// =============================================================================
// BrowseModel - Interactive catalog browser
// =============================================================================

// browseView is the screen a BrowseModel shows.
type browseView int

const (
	viewFeeds browseView = iota
	viewEntries
	viewEntry
)

// treeRow is one line of the flattened feed tree.
type treeRow struct {
	Item  catalog.Item
	Depth int
}

type entriesMsg struct {
	list *catalog.EntryList
	err  error
}

type entryMsg struct {
	entry *catalog.Entry
	text  string
	err   error
}

// BrowseModel is the bubbletea model for browsing feeds, entries and
// entry content.
type BrowseModel struct {
	ctx context.Context
	src BrowseSource

	Screen  browseView
	Rows    []treeRow
	Entries *catalog.EntryList
	Entry   *catalog.Entry
	Text    []string
	Err     error

	Cursor      int // position in the current list
	FeedCursor  int // position in the feed tree, restored on return
	EntryCursor int // position in the entry list, restored on return
	Offset      int
	Height      int
}

// NewBrowseModel creates a browser over the listing items.
func NewBrowseModel(ctx context.Context, src BrowseSource, items []catalog.Item) BrowseModel {
	return BrowseModel{
		ctx:    ctx,
		src:    src,
		Rows:   flatten(items, 0, nil),
		Height: 15,
	}
}

func flatten(items []catalog.Item, depth int, rows []treeRow) []treeRow {
	for _, it := range items {
		rows = append(rows, treeRow{Item: it, Depth: depth})
		if it.IsCategory() {
			rows = flatten(it.Children, depth+1, rows)
		}
	}
	return rows
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	case entriesMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Entries = msg.list
		m.Screen = viewEntries
		m.Cursor, m.Offset = 0, 0
	case entryMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Entry = msg.entry
		m.Text = strings.Split(msg.text, "\n")
		m.Screen = viewEntry
		m.Offset = 0
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace", "left", "h":
		m.back()
		return m, nil
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", "right", "l":
		cmd := m.open()
		return m, cmd
	}
	return m, nil
}

// length returns the number of lines of the current view.
func (m BrowseModel) length() int {
	switch m.Screen {
	case viewEntries:
		if m.Entries == nil {
			return 0
		}
		return len(m.Entries.Entries)
	case viewEntry:
		return len(m.Text)
	default:
		return len(m.Rows)
	}
}

func (m *BrowseModel) move(delta int) {
	if m.Screen == viewEntry {
		m.Offset += delta
		if last := m.length() - m.Height; m.Offset > last {
			m.Offset = last
		}
		if m.Offset < 0 {
			m.Offset = 0
		}
		return
	}

	next := m.Cursor + delta
	if next < 0 || next >= m.length() {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *BrowseModel) back() {
	m.Err = nil
	switch m.Screen {
	case viewEntry:
		m.Screen = viewEntries
		m.Cursor = m.EntryCursor
	case viewEntries:
		m.Screen = viewFeeds
		m.Cursor = m.FeedCursor
	default:
		return
	}
	m.Offset = 0
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// open returns the command loading whatever the cursor points at.
func (m *BrowseModel) open() tea.Cmd {
	ctx, src := m.ctx, m.src
	switch m.Screen {
	case viewFeeds:
		if m.Cursor >= len(m.Rows) {
			return nil
		}
		m.FeedCursor = m.Cursor
		it := m.Rows[m.Cursor].Item
		if it.IsCategory() {
			path := strings.Join(it.CategoryPath(), "/")
			return func() tea.Msg {
				list, err := src.ListCategoryEntries(ctx, path)
				return entriesMsg{list: list, err: err}
			}
		}
		return func() tea.Msg {
			list, err := src.ListEntries(ctx, "", it.FeedID)
			return entriesMsg{list: list, err: err}
		}
	case viewEntries:
		if m.Entries == nil || m.Cursor >= len(m.Entries.Entries) {
			return nil
		}
		m.EntryCursor = m.Cursor
		e := m.Entries.Entries[m.Cursor]
		return func() tea.Msg {
			entry, err := src.GetEntry(ctx, "", e.FeedID, e.EntryID)
			if err != nil {
				return entryMsg{err: err}
			}
			text, err := readableText(entry.Content, entry.Link)
			if err != nil || text == "" {
				text = entry.Content
			}
			return entryMsg{entry: entry, text: text}
		}
	}
	return nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	switch m.Screen {
	case viewEntries:
		m.viewEntries(&b)
	case viewEntry:
		m.viewEntry(&b)
	default:
		m.viewFeeds(&b)
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render(iconError + " " + ferrors.UserMessage(m.Err)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) viewFeeds(b *strings.Builder) {
	b.WriteString(StyleTitle.Render("Feeds"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ entries  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no feeds yet"))
		b.WriteString("\n")
		return
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]
		label := row.Item.Title
		if row.Item.IsCategory() {
			label += "/"
		}
		line := cursorMark(i == m.Cursor) + strings.Repeat("  ", row.Depth) + label
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case row.Item.IsCategory():
			b.WriteString(styleCategory.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
}

func (m BrowseModel) viewEntries(b *strings.Builder) {
	title := "Entries"
	var entries []catalog.EntrySummary
	if m.Entries != nil {
		entries = m.Entries.Entries
		if m.Entries.Title != "" {
			title = m.Entries.Title
		}
	}

	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ read  esc back  q quit"))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(listDimStyle.Render("  no entries"))
		b.WriteString("\n")
		return
	}

	end := min(m.Offset+m.Height, len(entries))
	for i := m.Offset; i < end; i++ {
		e := entries[i]
		line := fmt.Sprintf("%s%s  %s", cursorMark(i == m.Cursor), listDimStyle.Render(formatDate(e.Updated)), truncate(e.Title, 70))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(entries))))
}

func (m BrowseModel) viewEntry(b *strings.Builder) {
	if m.Entry == nil {
		return
	}
	b.WriteString(StyleTitle.Render(m.Entry.Title))
	b.WriteString("\n")
	if m.Entry.Link != "" {
		b.WriteString(StyleLink.Render(m.Entry.Link))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("updated " + formatDate(m.Entry.Updated) + "  ↑/↓ scroll  esc back  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Text))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.Text[i])
		b.WriteString("\n")
	}
}

func cursorMark(selected bool) string {
	if selected {
		return "▸ "
	}
	return "  "
}
