// Package discovery turns a user-supplied URL into a parsed feed.
//
// The URL may point at a feed document directly or at an HTML page that
// advertises its feeds with <link rel="alternate"> elements. [Pipeline]
// fetches the URL, falls back to autodiscovery when the body is not a feed,
// fetches the advertised feed and parses it:
//
//	p := &discovery.Pipeline{Fetcher: discovery.NewHTTPFetcher(discovery.Options{Timeout: 30 * time.Second})}
//	doc, feedURL, err := p.Discover(ctx, "https://blog.example.com/")
//
// Failures carry the codes UNREACHABLE_URL (nothing could be fetched) and
// UNREACHABLE_FEED_URL (the page advertises no usable feed). Nothing is
// retried.
package discovery
