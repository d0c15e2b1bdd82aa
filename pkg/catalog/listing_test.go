package catalog

import (
	"context"
	"testing"
	"time"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
	"github.com/matzehuels/feedtree/pkg/ident"
)

func TestListEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	url := "http://a/feed"
	f.disc.feed(url, "A", "first", "second")
	mustAdd(t, f, "", "category", "News")
	mustAdd(t, f, "News", "feed", url)

	for _, path := range []string{"", "News"} {
		list, err := f.cat.ListEntries(ctx, path, ident.ID(url))
		if err != nil {
			t.Fatalf("ListEntries(%q) error: %v", path, err)
		}
		if list.Title != "A" || len(list.Entries) != 2 {
			t.Fatalf("list = %+v", list)
		}
		e := list.Entries[1]
		if e.EntryID != ident.ID("second") || e.Title != "entry second" || e.FeedID != ident.ID(url) {
			t.Errorf("entry = %+v", e)
		}
		want := time.Date(2013, 8, 19, 1, 0, 0, 0, time.UTC)
		if !e.Updated.Equal(want) {
			t.Errorf("Updated = %v, want publication time %v", e.Updated, want)
		}
	}

	_, err := f.cat.ListEntries(ctx, "Missing", ident.ID(url))
	mustCode(t, err, ferrors.ErrCodeCategoryPathInvalid)
	_, err = f.cat.ListEntries(ctx, "", ident.ID("http://other/feed"))
	mustCode(t, err, ferrors.ErrCodeFeedNotFound)
	_, err = f.cat.ListEntries(ctx, "", "../../etc/passwd")
	mustCode(t, err, ferrors.ErrCodeFeedNotFound)
}

func TestListEntriesWithPathNeedsOutline(t *testing.T) {
	f := newFixture(t)
	_, err := f.cat.ListEntries(context.Background(), "News", ident.ID("http://a/feed"))
	mustCode(t, err, ferrors.ErrCodeOpmlNotFound)
}

func TestListCategoryEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.disc.feed("http://a/feed", "A", "a1", "a2")
	f.disc.feed("http://b/feed", "B", "b1")
	f.disc.feed("http://c/feed", "C", "c1")

	mustAdd(t, f, "", "category", "Top")
	mustAdd(t, f, "Top", "feed", "http://a/feed")
	mustAdd(t, f, "Top", "category", "Sub")
	mustAdd(t, f, "Top/Sub", "feed", "http://b/feed")
	mustAdd(t, f, "Top/Sub", "feed", "http://a/feed")
	mustAdd(t, f, "Top", "feed", "http://c/feed")
	mustAdd(t, f, "", "feed", "http://c/feed")

	list, err := f.cat.ListCategoryEntries(ctx, "Top")
	if err != nil {
		t.Fatal(err)
	}
	if list.Title != "Top" {
		t.Errorf("Title = %q", list.Title)
	}
	var got []string
	for _, e := range list.Entries {
		got = append(got, e.Title)
	}
	want := []string{"entry a1", "entry a2", "entry b1", "entry c1"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v (tree order, no sorting)", got, want)
		}
	}

	empty, err := f.cat.ListCategoryEntries(ctx, "Top/Sub/..")
	mustCode(t, err, ferrors.ErrCodeCategoryPathInvalid)
	if empty != nil {
		t.Error("failed listing returned data")
	}
}

func TestGetEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	url := "http://a/feed"
	f.disc.feed(url, "A", "only")
	mustAdd(t, f, "", "feed", url)

	e, err := f.cat.GetEntry(ctx, "", ident.ID(url), ident.ID("only"))
	if err != nil {
		t.Fatalf("GetEntry() error: %v", err)
	}
	if e.Content != "<p>only</p>" {
		t.Errorf("Content = %q", e.Content)
	}
	if want := time.Date(2013, 8, 19, 0, 1, 0, 0, time.UTC); !e.Updated.Equal(want) {
		t.Errorf("Updated = %v, want modification time %v", e.Updated, want)
	}

	_, err = f.cat.GetEntry(ctx, "", ident.ID(url), ident.ID("other"))
	mustCode(t, err, ferrors.ErrCodeEntryNotFound)
	_, err = f.cat.GetEntry(ctx, "", ident.ID("http://b/feed"), ident.ID("only"))
	mustCode(t, err, ferrors.ErrCodeFeedNotFound)
	_, err = f.cat.GetEntry(ctx, "Nope", ident.ID(url), ident.ID("only"))
	mustCode(t, err, ferrors.ErrCodeCategoryPathInvalid)
}
