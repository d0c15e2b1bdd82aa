package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"github.com/gogs/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrFeedURLNotFound is returned when a page advertises no feed.
var ErrFeedURLNotFound = errors.New("no feed url advertised")

var (
	alternateSelector = cascadia.MustCompile(`link[rel~="alternate"][href]`)
	baseSelector      = cascadia.MustCompile(`base[href]`)
)

// feedMimetypes are the link types accepted by autodiscovery.
var feedMimetypes = map[string]bool{
	"application/atom+xml": true,
	"application/rss+xml":  true,
	"application/rdf+xml":  true,
}

// fallbackCharset is what DetermineEncoding reports when it found nothing.
const fallbackCharset = "windows-1252"

// minConfidence is the chardet confidence below which its guess is ignored.
const minConfidence = 50

// FindFeedURLs returns the absolute URLs of every feed advertised by an
// HTML page, in document order. Relative hrefs are resolved against the
// page's <base href> when present, otherwise against pageURL.
func FindFeedURLs(body []byte, contentType, pageURL string) ([]string, error) {
	doc, err := html.Parse(decodeHTML(body, contentType))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("page url: %w", err)
	}
	if n := baseSelector.MatchFirst(doc); n != nil {
		if href, err := url.Parse(strings.TrimSpace(dom.GetAttribute(n, "href"))); err == nil {
			base = base.ResolveReference(href)
		}
	}

	var out []string
	for _, n := range alternateSelector.MatchAll(doc) {
		mimetype, _, _ := strings.Cut(dom.GetAttribute(n, "type"), ";")
		if !feedMimetypes[strings.ToLower(strings.TrimSpace(mimetype))] {
			continue
		}
		href, err := url.Parse(strings.TrimSpace(dom.GetAttribute(n, "href")))
		if err != nil {
			continue
		}
		out = append(out, base.ResolveReference(href).String())
	}
	return out, nil
}

// FindFeedURL returns the first feed advertised by an HTML page, or
// ErrFeedURLNotFound.
func FindFeedURL(body []byte, contentType, pageURL string) (string, error) {
	urls, err := FindFeedURLs(body, contentType, pageURL)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", ErrFeedURLNotFound
	}
	return urls[0], nil
}

// decodeHTML returns body transcoded to UTF-8. The charset comes from a
// BOM, the Content-Type header or a <meta> element; when all are absent
// and the bytes are not valid UTF-8, chardet guesses.
func decodeHTML(body []byte, contentType string) io.Reader {
	_, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == fallbackCharset {
		if res, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && res.Confidence >= minConfidence {
			name = res.Charset
		}
	}
	r, err := charset.NewReaderLabel(name, bytes.NewReader(body))
	if err != nil {
		return bytes.NewReader(body)
	}
	return r
}
