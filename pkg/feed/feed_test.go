package feed

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/feedtree/internal/testutil"
	"github.com/matzehuels/feedtree/pkg/ident"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"rss2", testutil.RSS2("t", "http://example.com"), FormatRSS2},
		{"atom", testutil.Atom("t", "http://example.com"), FormatAtom},
		{"rss1", testutil.RSS1("t", "http://example.com"), FormatRSS1},
		{"html", testutil.HTMLPage("t", "/feed.xml"), FormatUnknown},
		{"other xml", `<?xml version="1.0"?><opml version="2.0"/>`, FormatUnknown},
		{"empty", "", FormatUnknown},
		{"garbage", "not xml at all", FormatUnknown},
		{"latin1 rss", `<?xml version="1.0" encoding="ISO-8859-1"?><rss version="2.0"><channel/></rss>`, FormatRSS2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff([]byte(tt.data)); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMimetype(t *testing.T) {
	if FormatAtom.Mimetype() != "application/atom+xml" {
		t.Errorf("atom mimetype = %q", FormatAtom.Mimetype())
	}
	if FormatUnknown.Mimetype() != "" {
		t.Errorf("unknown mimetype = %q, want empty", FormatUnknown.Mimetype())
	}
}

func TestParseRSS2(t *testing.T) {
	doc, err := Parse([]byte(testutil.RSS2("Example Blog", "http://example.com")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Title != "Example Blog" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Format != FormatRSS2 {
		t.Errorf("Format = %q, want %q", doc.Format, FormatRSS2)
	}
	if got := doc.BlogURL(); got != "http://example.com" {
		t.Errorf("BlogURL() = %q", got)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(doc.Entries))
	}
	if doc.Entries[0].ID != "http://example.com/1" || doc.Entries[1].ID != "http://example.com/2" {
		t.Errorf("entries out of order: %q, %q", doc.Entries[0].ID, doc.Entries[1].ID)
	}
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if !doc.Entries[0].PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", doc.Entries[0].PublishedAt, want)
	}
}

func TestParseAtom(t *testing.T) {
	doc, err := Parse([]byte(testutil.Atom("Atom Blog", "http://atom.example.com")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Format != FormatAtom {
		t.Errorf("Format = %q, want %q", doc.Format, FormatAtom)
	}
	if got := doc.BlogURL(); got != "http://atom.example.com" {
		t.Errorf("BlogURL() = %q", got)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].ID != "urn:entry:Atom Blog" {
		t.Fatalf("Entries = %+v", doc.Entries)
	}
}

func TestParseRSS1(t *testing.T) {
	doc, err := Parse([]byte(testutil.RSS1("RDF Blog", "http://rdf.example.com")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Format != FormatRSS1 {
		t.Errorf("Format = %q, want %q", doc.Format, FormatRSS1)
	}
	if doc.Title != "RDF Blog" {
		t.Errorf("Title = %q", doc.Title)
	}
}

func TestParseFollowsSniffedFormat(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		title  string
		entry  string
	}{
		{
			name:   "atom quoting rss markup",
			format: FormatAtom,
			title:  "Markup Notes",
			entry:  "urn:entry:markup",
			data: `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Markup Notes</title>
  <link rel="alternate" type="text/html" href="http://notes.example.com"/>
  <id>urn:feed:markup</id>
  <updated>2024-03-01T00:00:00Z</updated>
  <entry>
    <title>Writing RSS by hand</title>
    <id>urn:entry:markup</id>
    <updated>2024-03-01T00:00:00Z</updated>
    <content type="html"><![CDATA[<pre><rss version="2.0"><channel/></rss></pre>]]></content>
  </entry>
</feed>`,
		},
		{
			name:   "rss1 with single-quoted namespace",
			format: FormatRSS1,
			title:  "Quoted RDF",
			entry:  "http://rdf.example.com/1",
			data: `<?xml version='1.0' encoding='utf-8'?>
<rdf:RDF xmlns:rdf='http://www.w3.org/1999/02/22-rdf-syntax-ns#' xmlns:dc='http://purl.org/dc/elements/1.1/' xmlns='http://purl.org/rss/1.0/'>
  <channel rdf:about='http://rdf.example.com'>
    <title>Quoted RDF</title>
    <link>http://rdf.example.com</link>
    <description>single quotes</description>
  </channel>
  <item rdf:about='http://rdf.example.com/1'>
    <title>One</title>
    <link>http://rdf.example.com/1</link>
    <dc:date>2024-01-01T00:00:00Z</dc:date>
  </item>
</rdf:RDF>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff([]byte(tt.data)); got != tt.format {
				t.Fatalf("Sniff() = %q, want %q", got, tt.format)
			}
			doc, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if doc.Format != tt.format || doc.Title != tt.title {
				t.Errorf("Parse() = %q/%q, want %q/%q", doc.Format, doc.Title, tt.format, tt.title)
			}
			if len(doc.Entries) != 1 || doc.Entries[0].ID != tt.entry {
				t.Fatalf("Entries = %+v, want one entry %q", doc.Entries, tt.entry)
			}
		})
	}
}

func TestParseRSS1Date(t *testing.T) {
	doc, err := Parse([]byte(testutil.RSS1("RDF Blog", "http://rdf.example.com")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(doc.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(doc.Entries))
	}
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if e := doc.Entries[0]; !e.PublishedAt.Equal(want) || e.ID != "http://rdf.example.com/rdf-1" {
		t.Errorf("entry = %q at %v, want rdf-1 at %v", e.ID, e.PublishedAt, want)
	}
}

func TestParseAtomKeepsPublishedAndUpdated(t *testing.T) {
	data := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Dated</title>
  <id>urn:feed:dated</id>
  <updated>2024-03-01T00:00:00Z</updated>
  <entry>
    <title>Edited later</title>
    <id>urn:entry:edited</id>
    <published>2024-01-01T00:00:00Z</published>
    <updated>2024-03-01T00:00:00Z</updated>
    <summary>body</summary>
  </entry>
  <entry>
    <title>Only updated</title>
    <id>urn:entry:plain</id>
    <updated>2024-02-01T00:00:00Z</updated>
  </entry>
</feed>`

	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(doc.Entries))
	}

	edited := doc.Entries[0]
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !edited.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", edited.PublishedAt, want)
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !edited.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", edited.UpdatedAt, want)
	}
	if edited.Content != "body" {
		t.Errorf("Content = %q, want summary", edited.Content)
	}

	plain := doc.Entries[1]
	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !plain.PublishedAt.Equal(want) || !plain.UpdatedAt.Equal(want) {
		t.Errorf("single date = %v / %v, want both %v", plain.PublishedAt, plain.UpdatedAt, want)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse([]byte(testutil.HTMLPage("page", "")))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Parse(html) error = %v, want ErrUnknownFormat", err)
	}
}

func TestBlogURLFirstMatchWins(t *testing.T) {
	doc := &Document{Links: []Link{
		{Relation: RelSelf, Mimetype: "application/atom+xml", URI: "http://a/feed"},
		{Relation: RelAlternate, Mimetype: "application/rss+xml", URI: "http://a/rss"},
		{Relation: RelAlternate, Mimetype: MimeHTML, URI: "http://a/first"},
		{Relation: RelAlternate, Mimetype: MimeHTML, URI: "http://a/second"},
	}}
	if got := doc.BlogURL(); got != "http://a/first" {
		t.Errorf("BlogURL() = %q, want first html alternate", got)
	}

	none := &Document{Links: []Link{{Relation: RelSelf, Mimetype: MimeHTML, URI: "http://a"}}}
	if got := none.BlogURL(); got != "" {
		t.Errorf("BlogURL() = %q, want empty", got)
	}
}

func TestDocumentEntry(t *testing.T) {
	doc := &Document{Entries: []Entry{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}

	e, ok := doc.Entry(ident.ID("b"))
	if !ok || e.Title != "B" {
		t.Errorf("Entry(id(b)) = %+v, %v", e, ok)
	}
	if _, ok := doc.Entry(ident.ID("c")); ok {
		t.Error("Entry(id(c)) should miss")
	}
	if _, ok := doc.Entry("b"); ok {
		t.Error("Entry should match on the identifier, not the raw id")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	published := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	in := &Document{
		Title:  "Round & Trip <3",
		Format: FormatAtom,
		Links: []Link{
			{Relation: RelAlternate, Mimetype: MimeHTML, URI: "http://example.com/?a=1&b=2"},
		},
		Entries: []Entry{
			{ID: "e1", Title: "One", Content: "<p>html</p>", Link: "http://example.com/1", PublishedAt: published, UpdatedAt: published.Add(time.Hour)},
			{ID: "e2", Title: "Two"},
		},
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Errorf("stored form should start with an XML header: %.20s", data)
	}

	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Title != in.Title || out.Format != in.Format {
		t.Errorf("header = %q/%q, want %q/%q", out.Title, out.Format, in.Title, in.Format)
	}
	if out.BlogURL() != in.BlogURL() {
		t.Errorf("BlogURL() = %q, want %q", out.BlogURL(), in.BlogURL())
	}
	if len(out.Entries) != 2 {
		t.Fatalf("len(Entries) = %d", len(out.Entries))
	}
	e := out.Entries[0]
	if e.Content != "<p>html</p>" || e.Link != "http://example.com/1" {
		t.Errorf("entry = %+v", e)
	}
	if !e.PublishedAt.Equal(published) || !e.UpdatedAt.Equal(published.Add(time.Hour)) {
		t.Errorf("times = %v / %v", e.PublishedAt, e.UpdatedAt)
	}
	if !out.Entries[1].PublishedAt.IsZero() {
		t.Errorf("zero time should survive, got %v", out.Entries[1].PublishedAt)
	}

	again, _ := Marshal(out)
	if !bytes.Equal(data, again) {
		t.Error("re-encoding a decoded document should be byte-identical")
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("<feed><entry><published>yesterday</published></entry></feed>")); err == nil {
		t.Error("Decode() should reject malformed timestamps")
	}
	if _, err := Decode(strings.NewReader("")); err == nil {
		t.Error("Decode() should reject empty input")
	}
}
