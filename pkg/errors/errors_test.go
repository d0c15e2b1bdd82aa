package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{ErrCodeUnreachableURL, "unreachable-url"},
		{ErrCodeUnreachableFeedURL, "unreachable-feed-url"},
		{ErrCodeOpmlNotFound, "opml-not-found"},
		{ErrCodeCategoryPathInvalid, "category-path-invalid"},
		{ErrCodeFeedNotFoundInPath, "feed-not-found-in-path"},
		{ErrCodeFeedNotFound, "feed-not-found"},
		{ErrCodeEntryNotFound, "entry-not-found"},
		{ErrCodeInvalidInput, "invalid-input"},
		{ErrCodeInternal, "internal-error"},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	miss := New(ErrCodeFeedNotFoundInPath, "feed %s is not in %q", "9c1f", "Tech/Go")
	if got, want := miss.Error(), `FEED_NOT_FOUND_IN_PATH: feed 9c1f is not in "Tech/Go"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	refused := Wrap(ErrCodeUnreachableURL, errors.New("connection refused"), "cannot connect to %q", "http://down.example")
	if got, want := refused.Error(), `UNREACHABLE_URL: cannot connect to "http://down.example": connection refused`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsFetchCause(t *testing.T) {
	timeout := fmt.Errorf("GET http://slow.example/feed: %w", os.ErrDeadlineExceeded)
	err := Wrap(ErrCodeUnreachableFeedURL, timeout, "cannot fetch feed")

	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Error("errors.Is should see the fetch failure through the wrap")
	}
	if errors.Unwrap(err) != timeout {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), timeout)
	}
	if got := UserMessage(err); got != "cannot fetch feed" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestIsAndGetCode(t *testing.T) {
	pathMiss := New(ErrCodeCategoryPathInvalid, "given category path is not valid: %q", "Nope")

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"coded", pathMiss, ErrCodeCategoryPathInvalid},
		{"behind fmt wrap", fmt.Errorf("list feeds: %w", pathMiss), ErrCodeCategoryPathInvalid},
		{"outer code wins", Wrap(ErrCodeUnreachableURL, New(ErrCodeInvalidInput, "bad scheme"), "cannot connect"), ErrCodeUnreachableURL},
		{"entry miss", New(ErrCodeEntryNotFound, "given entry does not exist"), ErrCodeEntryNotFound},
		{"plain", errors.New("disk full"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeFeedNotFound) {
				t.Error("Is(FEED_NOT_FOUND) = true for an unrelated error")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"catalog miss", New(ErrCodeOpmlNotFound, "no outline in repository"), "no outline in repository"},
		{"wrapped for context", fmt.Errorf("refresh: %w", New(ErrCodeFeedNotFound, "given feed does not exist")), "given feed does not exist"},
		{"plain", errors.New("permission denied"), "permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInternal(t *testing.T) {
	if Internal(nil, "save outline") != nil {
		t.Error("Internal(nil) should be nil")
	}

	full := errors.New("no space left on device")
	err := Internal(full, "save outline")
	if GetCode(err) != ErrCodeInternal || GetCode(err).Kind() != "internal-error" {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeInternal)
	}
	if !errors.Is(err, full) {
		t.Error("Internal should keep the cause")
	}

	for _, coded := range []error{
		New(ErrCodeFeedNotFound, "given feed does not exist"),
		fmt.Errorf("read document: %w", New(ErrCodeEntryNotFound, "given entry does not exist")),
	} {
		if got := Internal(coded, "read"); got != coded {
			t.Errorf("Internal(%v) = %v, want it returned unchanged", coded, got)
		}
	}
}
