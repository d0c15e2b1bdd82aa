// Package ident derives the stable identifiers feedtree uses to name feeds
// and entries.
//
// An identifier is the lowercase hex SHA-1 digest of a string's UTF-8
// bytes. Feed identifiers are computed from a subscription's source URL and
// entry identifiers from an entry's own id, so neither is ever stored: the
// outline keeps URLs and the identifier is recomputed whenever it is needed.
// Changing a subscription's source URL therefore changes its identifier and
// orphans the document stored under the old one.
//
//	id := ident.ID("http://example.com/feed.xml")
//	// "5c6a4d0d..." (40 hex characters)
package ident
