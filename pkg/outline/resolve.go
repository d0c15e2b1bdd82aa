package outline

import (
	"errors"
	"strings"
)

// ErrPathInvalid is returned by [Resolve] when a path segment names no
// child category.
var ErrPathInvalid = errors.New("category path invalid")

// SplitPath turns a slash-separated category path into its segments.
// Leading and trailing slashes are ignored; "" and "/" are the empty path.
func SplitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// JoinPath is the inverse of [SplitPath]. The empty path is "/".
func JoinPath(path []string) string {
	if len(path) == 0 {
		return "/"
	}
	return strings.Join(path, "/")
}

// Resolve walks path from root, descending at each segment into the first
// child category whose title equals it. Feeds are never descended into.
//
// With splitLast, the final segment is not traversed; it is returned as
// the target name alongside the category that would contain it. The empty
// path resolves to root (with splitLast it is invalid, since there is no
// target to split off).
func Resolve(root *Category, path []string, splitLast bool) (*Category, string, error) {
	var target string
	if splitLast {
		if len(path) == 0 {
			return nil, "", ErrPathInvalid
		}
		target = path[len(path)-1]
		path = path[:len(path)-1]
	}

	cursor := root
	for _, seg := range path {
		next := child(cursor, seg)
		if next == nil {
			return nil, "", ErrPathInvalid
		}
		cursor = next
	}
	return cursor, target, nil
}

func child(c *Category, title string) *Category {
	for _, n := range c.Children {
		if sub, ok := n.(*Category); ok && sub.Text == title {
			return sub
		}
	}
	return nil
}
