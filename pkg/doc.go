// Package pkg provides the core libraries for feedtree, a personal feed
// reader that keeps subscriptions in a category tree.
//
// # Overview
//
// A repository is a directory holding an OPML subscription outline and one
// parsed document per subscribed feed. The packages below build on each
// other, leaf-first:
//
//  1. [ident] - Feed and entry identifiers (SHA-1 of the canonical URL)
//  2. [feed] - Parsed feed documents, format sniffing and the document codec
//  3. [outline] - The category tree, its OPML form and path resolution
//  4. [store] - Document stores keyed by feed identifier (file, Postgres,
//     Redis, MongoDB)
//  5. [discovery] - Fetch a URL, autodiscover the feed behind an HTML page
//     and parse it
//  6. [catalog] - Compound operations that keep the outline and the store
//     consistent
//
// # Architecture
//
// The typical data flow when subscribing to a site:
//
//	URL
//	 ↓
//	[discovery] fetch + autodiscovery + parse
//	 ↓
//	[store] save document under [ident.ID] of the feed URL
//	 ↓
//	[outline] append feed reference, save OPML
//
// Reads go the other way: [catalog] resolves a category path in the
// outline, then loads the documents of the feeds it finds.
//
// # Quick Start
//
//	st, _ := store.Open(ctx, store.Config{Backend: "file", Dir: "repo"})
//	defer st.Close()
//
//	pipeline := &discovery.Pipeline{Fetcher: discovery.NewHTTPFetcher(discovery.Options{})}
//	cat := catalog.New(catalog.Config{Repository: "repo"}, st, pipeline, logger)
//	f, err := cat.AddFeed(ctx, "tech/go", "https://go.dev/blog/")
//
// # Supporting Packages
//
// [errors] - Coded errors shared by every layer; the HTTP API maps codes to
// status codes and the CLI prints them.
//
// [observability] - Hooks around catalog operations and fetches.
//
// [render/nodelink] - Graphviz diagrams of the subscription tree.
//
// [buildinfo] - Version strings and the default User-Agent.
//
// [ident]: github.com/matzehuels/feedtree/pkg/ident
// [feed]: github.com/matzehuels/feedtree/pkg/feed
// [outline]: github.com/matzehuels/feedtree/pkg/outline
// [store]: github.com/matzehuels/feedtree/pkg/store
// [discovery]: github.com/matzehuels/feedtree/pkg/discovery
// [catalog]: github.com/matzehuels/feedtree/pkg/catalog
// [errors]: github.com/matzehuels/feedtree/pkg/errors
// [observability]: github.com/matzehuels/feedtree/pkg/observability
// [render/nodelink]: github.com/matzehuels/feedtree/pkg/render/nodelink
// [buildinfo]: github.com/matzehuels/feedtree/pkg/buildinfo
// [ident.ID]: github.com/matzehuels/feedtree/pkg/ident#ID
package pkg
