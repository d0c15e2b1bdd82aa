package outline

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
)

// ErrNotFound is returned by [Load] when the outline file does not exist.
var ErrNotFound = errors.New("outline not found")

type opmlDocument struct {
	XMLName xml.Name     `xml:"opml"`
	Version string       `xml:"version,attr"`
	Head    opmlHead     `xml:"head"`
	Body    opmlOutlines `xml:"body"`
}

type opmlHead struct {
	Title        string `xml:"title"`
	DateCreated  string `xml:"dateCreated,omitempty"`
	DateModified string `xml:"dateModified,omitempty"`
}

type opmlOutlines struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr,omitempty"`
	Type     string        `xml:"type,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string        `xml:"htmlUrl,attr,omitempty"`
	Outlines []opmlOutline `xml:"outline"`
}

// Read parses an OPML document. An outline element carrying an xmlUrl
// attribute is a feed; any other is a category.
func Read(r io.Reader) (*Outline, error) {
	var doc opmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode opml: %w", err)
	}

	o := &Outline{Title: doc.Head.Title, Root: &Category{}}
	var err error
	if o.Created, err = parseDate(doc.Head.DateCreated); err != nil {
		return nil, fmt.Errorf("dateCreated: %w", err)
	}
	if o.Modified, err = parseDate(doc.Head.DateModified); err != nil {
		return nil, fmt.Errorf("dateModified: %w", err)
	}
	o.Root.Children = fromOPML(doc.Body.Outlines)
	return o, nil
}

func fromOPML(in []opmlOutline) []Node {
	out := make([]Node, 0, len(in))
	for _, el := range in {
		if el.XMLURL != "" {
			label := el.Title
			if label == "" {
				label = el.Text
			}
			out = append(out, &Feed{Type: el.Type, Label: label, XMLURL: el.XMLURL, HTMLURL: el.HTMLURL})
			continue
		}
		text := el.Text
		if text == "" {
			text = el.Title
		}
		out = append(out, &Category{Text: text, Children: fromOPML(el.Outlines)})
	}
	return out
}

// Write encodes o as an indented OPML 2.0 document.
func Write(w io.Writer, o *Outline) error {
	doc := opmlDocument{
		Version: "2.0",
		Head: opmlHead{
			Title:        o.Title,
			DateCreated:  formatDate(o.Created),
			DateModified: formatDate(o.Modified),
		},
	}
	if o.Root != nil {
		doc.Body.Outlines = toOPML(o.Root.Children)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode opml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func toOPML(in []Node) []opmlOutline {
	out := make([]opmlOutline, 0, len(in))
	for _, n := range in {
		switch n := n.(type) {
		case *Feed:
			out = append(out, opmlOutline{
				Text:    n.Label,
				Title:   n.Label,
				Type:    n.Type,
				XMLURL:  n.XMLURL,
				HTMLURL: n.HTMLURL,
			})
		case *Category:
			out = append(out, opmlOutline{
				Text:     n.Text,
				Title:    n.Text,
				Outlines: toOPML(n.Children),
			})
		}
	}
	return out
}

// Load reads the outline stored at path.
func Load(path string) (*Outline, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open outline: %w", err)
	}
	defer f.Close()

	o, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// LoadOrCreate reads the outline at path, first creating its directory and
// persisting an empty outline when none exists.
func LoadOrCreate(path string) (*Outline, error) {
	o, err := Load(path)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return o, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}
	o = New()
	if err := o.Save(path); err != nil {
		return nil, err
	}
	return o, nil
}

// Save rewrites the whole outline to path, updating its modification
// time. The file is replaced atomically through a temporary sibling.
func (o *Outline) Save(path string) error {
	o.Modified = time.Now().UTC().Truncate(time.Second)
	if o.Created.IsZero() {
		o.Created = o.Modified
	}

	var buf bytes.Buffer
	if err := Write(&buf, o); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write outline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace outline: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC1123Z)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t.UTC(), nil
}
