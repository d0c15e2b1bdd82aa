// Package feed defines the parsed feed document feedtree stores for every
// subscription, and the sniff-and-parse step that produces it from raw
// syndication bytes.
//
// # Document
//
// A [Document] is the format-neutral result of parsing RSS 1.0, RSS 2.0 or
// Atom: a title, the feed's outbound [Link]s and its [Entry] list in source
// order. The same type is what the document store persists; [Encode] and
// [Decode] convert it to and from the canonical XML form written to disk.
//
// # Parsing
//
// [Sniff] inspects the root element to decide the wire format and [Parse]
// hands the bytes to github.com/SlyMarbo/rss, mapping the result onto a
// Document:
//
//	doc, err := feed.Parse(body)
//	if errors.Is(err, feed.ErrUnknownFormat) {
//	    // not a feed, try autodiscovery
//	}
//	blog := doc.BlogURL()
package feed
