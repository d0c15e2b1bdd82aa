package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/feedtree/pkg/ident"
)

type routeKind int

const (
	routeFeeds routeKind = iota + 1
	routeAdd
	routeCategoryEntries
	routeFeedEntries
	routeEntry
	routeDeleteFeed
	routeDeleteCategory
)

// categoryRoute is a request below a category path.
type categoryRoute struct {
	kind    routeKind
	path    []string
	feedID  string
	entryID string
}

// matchCategoryRoute parses an escaped request path of the form
// "/<category path>/[feeds/[<feed>/[entries/[<entry>/]]]|entries/]".
// The trailing slash is required. Markers are matched from the end, so a
// category may itself be called "feeds" or "entries".
func matchCategoryRoute(method, escaped string) (categoryRoute, bool) {
	if !strings.HasSuffix(escaped, "/") {
		return categoryRoute{}, false
	}
	trimmed := strings.Trim(escaped, "/")
	if trimmed == "" {
		return categoryRoute{}, false
	}
	segs := strings.Split(trimmed, "/")
	for i, s := range segs {
		u, err := url.PathUnescape(s)
		if err != nil {
			return categoryRoute{}, false
		}
		segs[i] = u
	}
	n := len(segs)

	switch method {
	case http.MethodGet, http.MethodHead:
		switch {
		case n >= 5 && segs[n-4] == "feeds" && segs[n-2] == "entries":
			return categoryRoute{kind: routeEntry, path: segs[:n-4], feedID: segs[n-3], entryID: segs[n-1]}, true
		case n >= 4 && segs[n-3] == "feeds" && segs[n-1] == "entries":
			return categoryRoute{kind: routeFeedEntries, path: segs[:n-3], feedID: segs[n-2]}, true
		case n >= 2 && segs[n-1] == "feeds":
			return categoryRoute{kind: routeFeeds, path: segs[:n-1]}, true
		case n >= 2 && segs[n-1] == "entries":
			return categoryRoute{kind: routeCategoryEntries, path: segs[:n-1]}, true
		}
	case http.MethodPost:
		if n >= 2 && segs[n-1] == "feeds" {
			return categoryRoute{kind: routeAdd, path: segs[:n-1]}, true
		}
	case http.MethodDelete:
		if n >= 3 && segs[n-2] == "feeds" && ident.Valid(segs[n-1]) {
			return categoryRoute{kind: routeDeleteFeed, path: segs[:n-2], feedID: segs[n-1]}, true
		}
		return categoryRoute{kind: routeDeleteCategory, path: segs}, true
	}
	return categoryRoute{}, false
}
