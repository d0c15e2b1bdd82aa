package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/feedtree/pkg/catalog"
	ferrors "github.com/matzehuels/feedtree/pkg/errors"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"48h", now.Add(-48 * time.Hour)},
		{"90m", now.Add(-90 * time.Minute)},
		{"2024-03-01T00:00:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Mon, 02 Jan 2006 15:04:05 +0000", time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSince(tt.in, now)
			if err != nil {
				t.Fatalf("parseSince(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseSince(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := parseSince("not a date", now); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("parseSince(garbage) error = %v, want INVALID_INPUT", err)
	}
}

func TestFilterEntries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	entries := []catalog.EntrySummary{
		{Title: "old", Updated: day(1)},
		{Title: "undated"},
		{Title: "new", Updated: day(5)},
		{Title: "newer", Updated: day(6)},
	}

	titles := func(es []catalog.EntrySummary) string {
		var out []string
		for _, e := range es {
			out = append(out, e.Title)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name  string
		since time.Time
		limit int
		want  string
	}{
		{"all", time.Time{}, 0, "old,undated,new,newer"},
		{"since", day(3), 0, "undated,new,newer"},
		{"limit", time.Time{}, 2, "old,undated"},
		{"since and limit", day(3), 2, "undated,new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titles(filterEntries(entries, tt.since, tt.limit)); got != tt.want {
				t.Errorf("filterEntries() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReadableText(t *testing.T) {
	text, err := readableText("<p>Hello <b>world</b></p>", "http://example.com/post")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Hello") || !strings.Contains(text, "world") || strings.Contains(text, "<") {
		t.Errorf("readableText() = %q", text)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("a  b\nc", 10); got != "a b c" {
		t.Errorf("truncate collapses whitespace: got %q", got)
	}
	if got := truncate("abcdefgh", 4); got != "abc…" {
		t.Errorf("truncate(abcdefgh, 4) = %q", got)
	}
}
