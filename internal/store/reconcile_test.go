package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"kboard/internal/service"
)

func TestMergeByID_ReplacesAndKeepsOthers(t *testing.T) {
	cached := []service.Card{
		{ID: "a", ListID: "l1", Title: "old a"},
		{ID: "b", ListID: "l2", Title: "b"},
	}
	fetched := []service.Card{
		{ID: "a", ListID: "l1", Title: "new a"},
		{ID: "c", ListID: "l1", Title: "c"},
	}

	got := mergeByID(cached, fetched, cardID)

	want := []service.Card{
		{ID: "b", ListID: "l2", Title: "b"},
		{ID: "a", ListID: "l1", Title: "new a"},
		{ID: "c", ListID: "l1", Title: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeByID mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeByID_DuplicateFetched(t *testing.T) {
	fetched := []service.Card{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "second"},
	}

	got := mergeByID(nil, fetched, cardID)

	want := []service.Card{{ID: "a", Title: "second"}, {ID: "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeByID mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeByID_EmptyFetchKeepsCache(t *testing.T) {
	cached := []service.Card{{ID: "a", ListID: "l1"}}

	got := mergeByID(cached, nil, cardID)

	if diff := cmp.Diff(cached, got); diff != "" {
		t.Errorf("mergeByID mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceByID(t *testing.T) {
	items := []service.List{{ID: "l1", Title: "Todo"}, {ID: "l2", Title: "Done"}}

	if !replaceByID(items, service.List{ID: "l2", Title: "Shipped"}, listID) {
		t.Fatal("expected a match")
	}
	if items[1].Title != "Shipped" {
		t.Errorf("expected replaced title, got %q", items[1].Title)
	}
	if replaceByID(items, service.List{ID: "l9"}, listID) {
		t.Error("expected no match for unknown id")
	}
}

func TestRemoveByID_DoesNotAlias(t *testing.T) {
	items := []service.Board{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}

	got := removeByID(items, "b2", boardID)

	if diff := cmp.Diff([]service.Board{{ID: "b1"}, {ID: "b3"}}, got); diff != "" {
		t.Errorf("removeByID mismatch (-want +got):\n%s", diff)
	}
	if items[1].ID != "b2" {
		t.Error("removeByID modified its input")
	}
}

func TestRenumber(t *testing.T) {
	cards := []service.Card{
		{ID: "a", ListID: "l1", Position: 1000},
		{ID: "b", ListID: "l1", Position: 2000},
		{ID: "c", ListID: "l2", Position: 1000},
	}
	dest := []service.Card{{ID: "c"}, {ID: "a"}}

	got := Renumber(cards, "l2", dest)

	want := []service.Card{
		{ID: "a", ListID: "l2", Position: 1000},
		{ID: "b", ListID: "l1", Position: 2000},
		{ID: "c", ListID: "l2", Position: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Renumber mismatch (-want +got):\n%s", diff)
	}
}
