package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/feedtree/internal/testutil"
	"github.com/matzehuels/feedtree/pkg/catalog"
	"github.com/matzehuels/feedtree/pkg/discovery"
	"github.com/matzehuels/feedtree/pkg/ident"
	"github.com/matzehuels/feedtree/pkg/store"
)

type fixture struct {
	t    *testing.T
	site *testutil.Site
	srv  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	pipeline := &discovery.Pipeline{Fetcher: discovery.NewHTTPFetcher(discovery.Options{}), Logger: logger}
	cat := catalog.New(catalog.Config{Repository: dir}, st, pipeline, logger)

	srv := httptest.NewServer(New(cat, logger))
	t.Cleanup(srv.Close)

	site := testutil.NewSite(t)
	site.Feed("/feed.xml", testutil.RSS2("Example", "http://example.com"))
	site.HTML("/blog", testutil.HTMLPage("Blog", "/feed.xml"))

	return &fixture{t: t, site: site, srv: srv}
}

// do sends a request and decodes the JSON response into out.
func (f *fixture) do(method, path string, form url.Values, out any) *http.Response {
	f.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, f.srv.URL+path, body)
	if err != nil {
		f.t.Fatal(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		f.t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			f.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp
}

func (f *fixture) expectStatus(method, path string, form url.Values, status int, out any) {
	f.t.Helper()
	if resp := f.do(method, path, form, out); resp.StatusCode != status {
		f.t.Fatalf("%s %s: status = %d, want %d", method, path, resp.StatusCode, status)
	}
}

func category(title string) url.Values {
	return url.Values{"type": {"category"}, "title": {title}}
}

func subscribe(u string) url.Values {
	return url.Values{"type": {"feed"}, "url": {u}}
}

func titles(items []feedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestListFeedsWithoutOutline(t *testing.T) {
	f := newFixture(t)

	var body errorBody
	resp := f.do(http.MethodGet, "/feeds/", nil, &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body.Error != "opml-not-found" {
		t.Errorf("error = %q, want opml-not-found", body.Error)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q is not a uuid", RequestIDHeader, resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDEchoed(t *testing.T) {
	f := newFixture(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/feeds/", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, id)
	}
}

func TestSubscribeAndRead(t *testing.T) {
	f := newFixture(t)
	feedID := ident.ID(f.site.URL("/feed.xml"))

	var listing feedsBody
	f.expectStatus(http.MethodPost, "/feeds/", category("News"), http.StatusOK, &listing)
	if len(listing.Feeds) != 1 || listing.Feeds[0].Title != "News" {
		t.Fatalf("listing = %+v", listing)
	}
	if got := listing.Feeds[0].FeedURL; got != f.srv.URL+"/News/entries/" {
		t.Errorf("category feed_url = %q", got)
	}
	if listing.Feeds[0].Feeds == nil {
		t.Error("empty category should list an empty feeds array")
	}

	f.expectStatus(http.MethodPost, "/News/feeds/", subscribe(f.site.URL("/blog")), http.StatusOK, &listing)
	if len(listing.Feeds) != 1 {
		t.Fatalf("News listing = %+v", listing)
	}
	sub := listing.Feeds[0]
	if sub.Title != "Example" || sub.FeedID != feedID {
		t.Errorf("feed = %+v", sub)
	}
	if want := f.srv.URL + "/News/feeds/" + feedID + "/entries/"; sub.FeedURL != want {
		t.Errorf("feed_url = %q, want %q", sub.FeedURL, want)
	}

	var entries entriesBody
	f.expectStatus(http.MethodGet, "/News/feeds/"+feedID+"/entries/", nil, http.StatusOK, &entries)
	if entries.Title != "Example" || len(entries.Entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	first := entries.Entries[0]
	entryID := ident.ID("http://example.com/1")
	if want := f.srv.URL + "/feeds/" + feedID + "/entries/" + entryID + "/"; first.EntryURL != want {
		t.Errorf("entry_url = %q, want %q", first.EntryURL, want)
	}
	if first.Updated == nil || !first.Updated.Equal(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)) {
		t.Errorf("updated = %v", first.Updated)
	}

	var entry entryBody
	f.expectStatus(http.MethodGet, "/feeds/"+feedID+"/entries/"+entryID+"/", nil, http.StatusOK, &entry)
	if !strings.Contains(entry.Content, "first body") {
		t.Errorf("content = %q", entry.Content)
	}
	f.expectStatus(http.MethodGet, "/News/feeds/"+feedID+"/entries/"+entryID+"/", nil, http.StatusOK, &entry)

	var all entriesBody
	f.expectStatus(http.MethodGet, "/News/entries/", nil, http.StatusOK, &all)
	if all.Title != "News" || len(all.Entries) != 2 {
		t.Errorf("category entries = %+v", all)
	}

	f.expectStatus(http.MethodDelete, "/News/feeds/"+feedID+"/", nil, http.StatusOK, &listing)
	if len(listing.Feeds) != 0 {
		t.Errorf("listing after delete = %+v", listing)
	}
	f.expectStatus(http.MethodGet, "/feeds/"+feedID+"/entries/", nil, http.StatusNotFound, nil)
}

func TestDeleteCategory(t *testing.T) {
	f := newFixture(t)

	f.expectStatus(http.MethodPost, "/feeds/", category("A"), http.StatusOK, nil)
	f.expectStatus(http.MethodPost, "/A/feeds/", category("B"), http.StatusOK, nil)
	f.expectStatus(http.MethodPost, "/A/feeds/", category("C"), http.StatusOK, nil)

	var listing feedsBody
	f.expectStatus(http.MethodDelete, "/A/B/", nil, http.StatusOK, &listing)
	if got := titles(listing.Feeds); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("listing of A = %v, want [C]", got)
	}

	f.expectStatus(http.MethodDelete, "/A/", nil, http.StatusOK, &listing)
	if len(listing.Feeds) != 0 {
		t.Errorf("root listing = %+v", listing)
	}
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	f.expectStatus(http.MethodPost, "/feeds/", category("News"), http.StatusOK, nil)
	missing := ident.ID("http://missing.example/feed")

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
		status int
		kind   string
	}{
		{"unknown category", http.MethodGet, "/Nope/feeds/", nil, http.StatusNotFound, "category-path-invalid"},
		{"unknown category entries", http.MethodGet, "/Nope/entries/", nil, http.StatusNotFound, "category-path-invalid"},
		{"add under unknown category", http.MethodPost, "/Nope/feeds/", category("X"), http.StatusNotFound, "category-path-invalid"},
		{"delete under unknown category", http.MethodDelete, "/Nope/X/", nil, http.StatusNotFound, "category-path-invalid"},
		{"missing feed", http.MethodGet, "/feeds/" + missing + "/entries/", nil, http.StatusNotFound, "feed-not-found"},
		{"missing feed entry", http.MethodGet, "/feeds/" + missing + "/entries/" + missing + "/", nil, http.StatusNotFound, "feed-not-found"},
		{"feed not in path", http.MethodDelete, "/feeds/" + missing + "/", nil, http.StatusBadRequest, "feed-not-found-in-path"},
		{"bad post type", http.MethodPost, "/feeds/", url.Values{"type": {"bogus"}}, http.StatusBadRequest, "invalid-input"},
		{"empty title", http.MethodPost, "/feeds/", category(""), http.StatusBadRequest, "invalid-input"},
		{"unknown url type", http.MethodPost, "/feeds/", subscribe("ftp://example.com/feed"), http.StatusBadRequest, "unreachable-url"},
		{"unreachable url", http.MethodPost, "/feeds/", subscribe("http://127.0.0.1:1/feed"), http.StatusBadRequest, "unreachable-url"},
		{"no feed advertised", http.MethodPost, "/feeds/", subscribe(f.site.URL("/plain")), http.StatusBadRequest, "unreachable-feed-url"},
	}
	f.site.HTML("/plain", testutil.HTMLPage("Plain", ""))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			resp := f.do(tt.method, tt.path, tt.form, &body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body.Error != tt.kind {
				t.Errorf("error = %q, want %q", body.Error, tt.kind)
			}
			if body.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestEntryNotFound(t *testing.T) {
	f := newFixture(t)
	f.expectStatus(http.MethodPost, "/feeds/", subscribe(f.site.URL("/feed.xml")), http.StatusOK, nil)
	feedID := ident.ID(f.site.URL("/feed.xml"))

	var body errorBody
	f.expectStatus(http.MethodGet, "/feeds/"+feedID+"/entries/"+ident.ID("nope")+"/", nil, http.StatusNotFound, &body)
	if body.Error != "entry-not-found" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestMatchCategoryRoute(t *testing.T) {
	id := ident.ID("http://example.com/feed")

	tests := []struct {
		method string
		path   string
		want   categoryRoute
		ok     bool
	}{
		{http.MethodGet, "/A/feeds/", categoryRoute{kind: routeFeeds, path: []string{"A"}}, true},
		{http.MethodGet, "/A/B/feeds/", categoryRoute{kind: routeFeeds, path: []string{"A", "B"}}, true},
		{http.MethodGet, "/A/entries/", categoryRoute{kind: routeCategoryEntries, path: []string{"A"}}, true},
		{http.MethodGet, "/A/feeds/" + id + "/entries/", categoryRoute{kind: routeFeedEntries, path: []string{"A"}, feedID: id}, true},
		{http.MethodGet, "/A/B/feeds/" + id + "/entries/e/", categoryRoute{kind: routeEntry, path: []string{"A", "B"}, feedID: id, entryID: "e"}, true},
		{http.MethodGet, "/feeds/feeds/", categoryRoute{kind: routeFeeds, path: []string{"feeds"}}, true},
		{http.MethodGet, "/My%20Blogs/feeds/", categoryRoute{kind: routeFeeds, path: []string{"My Blogs"}}, true},
		{http.MethodPost, "/A/feeds/", categoryRoute{kind: routeAdd, path: []string{"A"}}, true},
		{http.MethodDelete, "/A/feeds/" + id + "/", categoryRoute{kind: routeDeleteFeed, path: []string{"A"}, feedID: id}, true},
		{http.MethodDelete, "/A/B/", categoryRoute{kind: routeDeleteCategory, path: []string{"A", "B"}}, true},
		{http.MethodDelete, "/A/feeds/", categoryRoute{kind: routeDeleteCategory, path: []string{"A", "feeds"}}, true},
		{http.MethodGet, "/A/feeds", categoryRoute{}, false},
		{http.MethodGet, "/A/", categoryRoute{}, false},
		{http.MethodGet, "/", categoryRoute{}, false},
		{http.MethodPost, "/A/", categoryRoute{}, false},
		{http.MethodPut, "/A/feeds/", categoryRoute{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got, ok := matchCategoryRoute(tt.method, tt.path)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServe(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	cat := catalog.New(catalog.Config{Repository: dir}, st, &discovery.Pipeline{}, logger)
	if err := cat.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv := New(cat, logger)

	ctx, cancel := context.WithCancel(context.Background())
	addrc := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, "127.0.0.1:0", func(a net.Addr) { addrc <- a })
	}()

	addr := <-addrc
	resp, err := http.Get("http://" + addr.String() + "/feeds/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
