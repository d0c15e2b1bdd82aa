package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// The stored form of a Document is an Atom-shaped XML file written in a
// fixed element order so rewriting an unchanged document yields identical
// bytes.

type xmlDocument struct {
	XMLName xml.Name   `xml:"http://www.w3.org/2005/Atom feed"`
	Format  string     `xml:"format,attr,omitempty"`
	Title   string     `xml:"title"`
	Links   []xmlLink  `xml:"link"`
	Entries []xmlEntry `xml:"entry"`
}

type xmlLink struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type xmlEntry struct {
	ID        string     `xml:"id"`
	Title     string     `xml:"title"`
	Link      *xmlLink   `xml:"link,omitempty"`
	Published string     `xml:"published,omitempty"`
	Updated   string     `xml:"updated,omitempty"`
	Content   xmlContent `xml:"content"`
}

type xmlContent struct {
	Type string `xml:"type,attr,omitempty"`
	Body string `xml:",chardata"`
}

// Encode writes d to w in its stored XML form.
func Encode(w io.Writer, d *Document) error {
	out := xmlDocument{
		Format:  string(d.Format),
		Title:   d.Title,
		Links:   make([]xmlLink, 0, len(d.Links)),
		Entries: make([]xmlEntry, 0, len(d.Entries)),
	}
	for _, l := range d.Links {
		out.Links = append(out.Links, xmlLink{Rel: l.Relation, Type: l.Mimetype, Href: l.URI})
	}
	for _, e := range d.Entries {
		xe := xmlEntry{
			ID:        e.ID,
			Title:     e.Title,
			Published: formatTime(e.PublishedAt),
			Updated:   formatTime(e.UpdatedAt),
			Content:   xmlContent{Type: "html", Body: e.Content},
		}
		if e.Link != "" {
			xe.Link = &xmlLink{Rel: RelAlternate, Href: e.Link}
		}
		out.Entries = append(out.Entries, xe)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a Document previously written by [Encode].
func Decode(r io.Reader) (*Document, error) {
	var in xmlDocument
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	d := &Document{
		Title:   in.Title,
		Format:  Format(in.Format),
		Entries: make([]Entry, 0, len(in.Entries)),
	}
	for _, l := range in.Links {
		d.Links = append(d.Links, Link{Relation: l.Rel, Mimetype: l.Type, URI: l.Href})
	}
	for _, xe := range in.Entries {
		e := Entry{
			ID:      xe.ID,
			Title:   xe.Title,
			Content: xe.Content.Body,
		}
		if xe.Link != nil {
			e.Link = xe.Link.Href
		}
		var err error
		if e.PublishedAt, err = parseTime(xe.Published); err != nil {
			return nil, fmt.Errorf("entry %s: published: %w", xe.ID, err)
		}
		if e.UpdatedAt, err = parseTime(xe.Updated); err != nil {
			return nil, fmt.Errorf("entry %s: updated: %w", xe.ID, err)
		}
		d.Entries = append(d.Entries, e)
	}
	return d, nil
}

// Marshal returns the stored form of d.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the stored form of a Document.
func Unmarshal(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
