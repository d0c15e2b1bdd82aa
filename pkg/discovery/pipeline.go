package discovery

import (
	"context"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/feed"
)

// Pipeline resolves user-supplied URLs to parsed feeds.
type Pipeline struct {
	Fetcher Fetcher
	Logger  *log.Logger
}

// Discover fetches url and returns the parsed feed with the URL it was
// read from. When url serves HTML, the first feed the page advertises is
// fetched instead.
//
// Errors carry ErrCodeUnreachableURL when a fetch fails and
// ErrCodeUnreachableFeedURL when no feed is advertised or the advertised
// resource is not a feed.
func (p *Pipeline) Discover(ctx context.Context, url string) (*feed.Document, string, error) {
	logger := p.logger()

	page, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, "", ferrors.Wrap(ferrors.ErrCodeUnreachableURL, err, "cannot connect to %s", url)
	}

	feedURL := url
	body := page.Body
	if feed.Sniff(body) == feed.FormatUnknown {
		found, err := FindFeedURL(body, page.ContentType, page.URL)
		if err != nil {
			return nil, "", ferrors.Wrap(ferrors.ErrCodeUnreachableFeedURL, err, "cannot find feed url in %s", url)
		}
		logger.Debug("autodiscovered feed", "page", url, "feed", found)
		feedURL = found
	}

	if feedURL != url {
		res, err := p.Fetcher.Fetch(ctx, feedURL)
		if err != nil {
			return nil, "", ferrors.Wrap(ferrors.ErrCodeUnreachableURL, err, "cannot connect to %s", feedURL)
		}
		body = res.Body
	}

	doc, err := feed.Parse(body)
	if err != nil {
		return nil, "", ferrors.Wrap(ferrors.ErrCodeUnreachableFeedURL, err, "%s is not a readable feed", feedURL)
	}
	logger.Debug("fetched feed", "feed", feedURL, "format", doc.Format, "entries", len(doc.Entries))
	return doc, feedURL, nil
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}
