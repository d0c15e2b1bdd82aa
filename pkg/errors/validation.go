package errors

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/matzehuels/feedtree/pkg/ident"
)

// maxTitleLength bounds category titles accepted from callers.
const maxTitleLength = 256

// ValidateTitle validates a category title.
//
// Titles become path segments, so a title containing "/" could never be
// resolved again and is rejected along with empty and control-character
// titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "title cannot be empty")
	}

	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}

	if strings.Contains(title, "/") {
		return New(ErrCodeInvalidInput, "title cannot contain %q", "/")
	}

	return nil
}

// ValidateID validates a feed or entry identifier.
// Identifiers are used as storage keys, so anything that is not a
// well-formed digest is rejected before it reaches a backend.
func ValidateID(id string) error {
	if !ident.Valid(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL parses, is absolute and has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "URL cannot be parsed")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host")
	}

	return nil
}
