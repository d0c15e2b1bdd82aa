package errors

import (
	"strings"
	"testing"

	"github.com/matzehuels/feedtree/pkg/ident"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"valid", "Tech", false},
		{"unicode", "기술 블로그", false},
		{"spaces inside", "Small Web", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"slash", "a/b", true},
		{"control", "a\x00b", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.title, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateTitle(%q) code = %v, want %v", tt.title, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(ident.ID("http://example.com/feed")); err != nil {
		t.Errorf("ValidateID(valid) = %v", err)
	}
	for _, bad := range []string{"", "feed", "../../etc/passwd", strings.Repeat("Z", ident.Size)} {
		if err := ValidateID(bad); !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateID(%q) = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/feed.xml", false},
		{"http", "http://example.com/blog", false},
		{"with port", "http://localhost:8080/feed", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com/feed", true},
		{"no scheme", "example.com/feed", true},
		{"no host", "http:///feed", true},
		{"file", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeUnreachableURL,
		ErrCodeUnreachableFeedURL,
		ErrCodeOpmlNotFound,
		ErrCodeCategoryPathInvalid,
		ErrCodeFeedNotFoundInPath,
		ErrCodeFeedNotFound,
		ErrCodeEntryNotFound,
		ErrCodeInvalidInput,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
