// Package catalog keeps a feed subscription tree and its document store
// consistent.
//
// The tree is an OPML outline in the repository directory; each subscribed
// feed's parsed document lives in a [store.Store] under the feed's
// identifier. Every operation reloads the outline from disk, so there is
// no cached state between calls and no locking: a Catalog serves a
// single-user, single-process deployment.
//
// # Consistency
//
// Adding a feed writes its document before the outline references it. A
// failure between the two steps leaves an orphaned document, which [Catalog.Prune]
// collects, and never a reference to a missing document. Deleting a feed
// removes its document only when no other category still references the
// same feed. Deleting a category does not collect the documents of the
// feeds beneath it; run Prune afterwards.
//
// # Errors
//
// Every error returned carries a code from package errors
// (github.com/matzehuels/feedtree/pkg/errors). Unclassified I/O failures
// are INTERNAL_ERROR. The catalog never logs the errors it returns.
package catalog
