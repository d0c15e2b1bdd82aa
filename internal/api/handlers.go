package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/feedtree/pkg/catalog"
	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/outline"
)

// Form values of the "type" field of a POST to a feeds listing.
const (
	postFeed     = "feed"
	postCategory = "category"
)

type feedsBody struct {
	Feeds []feedItem `json:"feeds"`
}

type feedItem struct {
	Title   string     `json:"title"`
	FeedURL string     `json:"feed_url"`
	FeedID  string     `json:"feed_id,omitempty"`
	XMLURL  string     `json:"xml_url,omitempty"`
	HTMLURL string     `json:"html_url,omitempty"`
	Feeds   []feedItem `json:"feeds,omitzero"`
}

type entriesBody struct {
	Title   string      `json:"title"`
	Entries []entryItem `json:"entries"`
}

type entryItem struct {
	Title    string     `json:"title"`
	EntryURL string     `json:"entry_url"`
	Link     string     `json:"link,omitempty"`
	Updated  *time.Time `json:"updated"`
}

type entryBody struct {
	Title   string     `json:"title"`
	Link    string     `json:"link,omitempty"`
	Content string     `json:"content"`
	Updated *time.Time `json:"updated"`
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	s.listFeeds(w, r, nil)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.add(w, r, nil)
}

func (s *Server) handleDeleteFeed(w http.ResponseWriter, r *http.Request) {
	s.deleteFeed(w, r, nil, chi.URLParam(r, "feedID"))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	s.listEntries(w, r, nil, chi.URLParam(r, "feedID"))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	s.getEntry(w, r, nil, chi.URLParam(r, "feedID"), chi.URLParam(r, "entryID"))
}

// handleCategory dispatches every route below a category path.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	rt, ok := matchCategoryRoute(r.Method, r.URL.EscapedPath())
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not-found", Message: "no such route"})
		return
	}

	switch rt.kind {
	case routeFeeds:
		s.listFeeds(w, r, rt.path)
	case routeAdd:
		s.add(w, r, rt.path)
	case routeCategoryEntries:
		s.listCategoryEntries(w, r, rt.path)
	case routeFeedEntries:
		s.listEntries(w, r, rt.path, rt.feedID)
	case routeEntry:
		s.getEntry(w, r, rt.path, rt.feedID, rt.entryID)
	case routeDeleteFeed:
		s.deleteFeed(w, r, rt.path, rt.feedID)
	case routeDeleteCategory:
		s.deleteCategory(w, r, rt.path)
	}
}

func (s *Server) listFeeds(w http.ResponseWriter, r *http.Request, path []string) {
	items, err := s.catalog.ListFeeds(r.Context(), outline.JoinPath(path))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedsBody{Feeds: feedItems(baseURL(r), items)})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request, path []string) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "cannot parse form"))
		return
	}

	var err error
	switch kind := r.PostForm.Get("type"); kind {
	case postFeed:
		_, err = s.catalog.AddFeed(r.Context(), outline.JoinPath(path), r.PostForm.Get("url"))
	case postCategory:
		_, err = s.catalog.AddCategory(r.Context(), outline.JoinPath(path), r.PostForm.Get("title"))
	default:
		err = ferrors.New(ferrors.ErrCodeInvalidInput, "type must be %q or %q, got %q", postFeed, postCategory, kind)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.listFeeds(w, r, path)
}

func (s *Server) deleteFeed(w http.ResponseWriter, r *http.Request, path []string, feedID string) {
	if err := s.catalog.DeleteFeed(r.Context(), outline.JoinPath(path), feedID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.listFeeds(w, r, path)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request, path []string) {
	if err := s.catalog.DeleteCategory(r.Context(), outline.JoinPath(path)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.listFeeds(w, r, path[:len(path)-1])
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, path []string, feedID string) {
	list, err := s.catalog.ListEntries(r.Context(), outline.JoinPath(path), feedID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesBodyOf(baseURL(r), list.Title, list))
}

func (s *Server) listCategoryEntries(w http.ResponseWriter, r *http.Request, path []string) {
	list, err := s.catalog.ListCategoryEntries(r.Context(), strings.Join(path, "/"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesBodyOf(baseURL(r), list.Title, list))
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request, path []string, feedID, entryID string) {
	e, err := s.catalog.GetEntry(r.Context(), outline.JoinPath(path), feedID, entryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryBody{
		Title:   e.Title,
		Link:    e.Link,
		Content: e.Content,
		Updated: timePtr(e.Updated),
	})
}

func feedItems(base string, items []catalog.Item) []feedItem {
	out := make([]feedItem, 0, len(items))
	for _, it := range items {
		if it.IsCategory() {
			out = append(out, feedItem{
				Title:   it.Title,
				FeedURL: base + escapePath(it.CategoryPath()) + "/entries/",
				Feeds:   feedItems(base, it.Children),
			})
			continue
		}
		out = append(out, feedItem{
			Title:   it.Title,
			FeedURL: base + escapePath(it.Path) + "/feeds/" + it.FeedID + "/entries/",
			FeedID:  it.FeedID,
			XMLURL:  it.XMLURL,
			HTMLURL: it.HTMLURL,
		})
	}
	return out
}

func entriesBodyOf(base, title string, list *catalog.EntryList) entriesBody {
	body := entriesBody{Title: title, Entries: make([]entryItem, 0, len(list.Entries))}
	for _, e := range list.Entries {
		body.Entries = append(body.Entries, entryItem{
			Title:    e.Title,
			EntryURL: base + "/feeds/" + e.FeedID + "/entries/" + e.EntryID + "/",
			Link:     e.Link,
			Updated:  timePtr(e.Updated),
		})
	}
	return body
}

// baseURL returns the scheme and host the request was addressed to.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// escapePath renders a category path as a URL path prefix, "" for the
// root.
func escapePath(path []string) string {
	var b strings.Builder
	for _, seg := range path {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
