package dnd_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kboard/internal/dnd"
	"kboard/internal/service"
	"kboard/internal/store"
	"kboard/internal/testutil"
)

func snapshot() dnd.Snapshot {
	return dnd.Snapshot{
		BoardID: "b1",
		Lists: []service.List{
			{ID: "l1", BoardID: "b1", Position: 1000},
			{ID: "l2", BoardID: "b1", Position: 2000},
			{ID: "l3", BoardID: "b1", Position: 3000},
		},
		Cards: map[string][]service.Card{
			"l1": {{ID: "a", ListID: "l1"}, {ID: "b", ListID: "l1"}, {ID: "c", ListID: "l1"}},
			"l2": {{ID: "d", ListID: "l2"}},
			"l3": nil,
		},
	}
}

func cardIDs(cards []service.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestIsNoop(t *testing.T) {
	tests := []struct {
		name string
		r    dnd.Result
		want bool
	}{
		{"dropped outside", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l1", Index: 0}}, true},
		{"same slot", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l1", Index: 1}, Destination: &dnd.Location{ParentID: "l1", Index: 1}}, true},
		{"same list new index", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l1", Index: 1}, Destination: &dnd.Location{ParentID: "l1", Index: 0}}, false},
		{"same index other list", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l1", Index: 0}, Destination: &dnd.Location{ParentID: "l2", Index: 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dnd.IsNoop(tt.r); got != tt.want {
				t.Errorf("IsNoop = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompute_NoopPlansNothing(t *testing.T) {
	plan, err := dnd.Compute(dnd.Result{Kind: dnd.KindList, Source: dnd.Location{ParentID: "b1", Index: 2}}, snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Noop() {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestCompute_ListMove(t *testing.T) {
	r := dnd.Result{
		Kind:        dnd.KindList,
		Source:      dnd.Location{ParentID: "b1", Index: 0},
		Destination: &dnd.Location{ParentID: "b1", Index: 2},
	}

	plan, err := dnd.Compute(r, snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Lists == nil || plan.Cards != nil {
		t.Fatalf("expected a list plan, got %+v", plan)
	}
	var got []string
	for _, l := range plan.Lists.Lists {
		got = append(got, l.ID)
	}
	if diff := cmp.Diff([]string{"l2", "l3", "l1"}, got); diff != "" {
		t.Errorf("list order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_CardWithinList(t *testing.T) {
	r := dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: "l1", Index: 2},
		Destination: &dnd.Location{ParentID: "l1", Index: 0},
	}

	plan, err := dnd.Compute(r, snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := plan.Cards
	if m == nil {
		t.Fatal("expected a card plan")
	}
	if m.SourceListID != "l1" || m.DestinationListID != "l1" {
		t.Errorf("unexpected lists: %s -> %s", m.SourceListID, m.DestinationListID)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, cardIDs(m.Destination)); diff != "" {
		t.Errorf("destination mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cardIDs(m.Destination), cardIDs(m.Source)); diff != "" {
		t.Errorf("within one list source and destination must match:\n%s", diff)
	}
}

func TestCompute_CardAcrossLists(t *testing.T) {
	snap := snapshot()
	r := dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: "l1", Index: 1},
		Destination: &dnd.Location{ParentID: "l2", Index: 0},
	}

	plan, err := dnd.Compute(r, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := plan.Cards
	if diff := cmp.Diff([]string{"a", "c"}, cardIDs(m.Source)); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "d"}, cardIDs(m.Destination)); diff != "" {
		t.Errorf("destination mismatch (-want +got):\n%s", diff)
	}
	if m.Destination[0].ListID != "l2" {
		t.Errorf("moved card should belong to l2, got %s", m.Destination[0].ListID)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, cardIDs(snap.Cards["l1"])); diff != "" {
		t.Errorf("Compute modified the snapshot:\n%s", diff)
	}
}

func TestCompute_CardIntoEmptyListClampsIndex(t *testing.T) {
	r := dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: "l2", Index: 0},
		Destination: &dnd.Location{ParentID: "l3", Index: 5},
	}

	plan, err := dnd.Compute(r, snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"d"}, cardIDs(plan.Cards.Destination)); diff != "" {
		t.Errorf("destination mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Cards.Source) != 0 {
		t.Errorf("expected empty source, got %v", cardIDs(plan.Cards.Source))
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name string
		r    dnd.Result
	}{
		{"source index out of range", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l2", Index: 3}, Destination: &dnd.Location{ParentID: "l1", Index: 0}}},
		{"unknown source list", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "lx", Index: 0}, Destination: &dnd.Location{ParentID: "l1", Index: 0}}},
		{"unknown destination list", dnd.Result{Kind: dnd.KindCard, Source: dnd.Location{ParentID: "l1", Index: 0}, Destination: &dnd.Location{ParentID: "lx", Index: 0}}},
		{"list index out of range", dnd.Result{Kind: dnd.KindList, Source: dnd.Location{ParentID: "b1", Index: 7}, Destination: &dnd.Location{ParentID: "b1", Index: 0}}},
		{"unknown kind", dnd.Result{Kind: dnd.Kind(9), Source: dnd.Location{ParentID: "b1", Index: 0}, Destination: &dnd.Location{ParentID: "b1", Index: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dnd.Compute(tt.r, snapshot()); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := dnd.Compute(tests[0].r, snapshot())
	if !errors.Is(err, dnd.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestMove(t *testing.T) {
	got, err := dnd.Move([]string{"a", "b", "c", "d"}, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a", "d"}, got); diff != "" {
		t.Errorf("Move mismatch (-want +got):\n%s", diff)
	}

	got, _ = dnd.Move([]string{"a", "b"}, 1, -3)
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Errorf("negative index should clamp to front:\n%s", diff)
	}

	if _, err := dnd.Move([]string{"a"}, 1, 0); !errors.Is(err, dnd.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestApply(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddBoard("b1", "Roadmap")
	svc.AddList("l1", "b1", "Todo")
	svc.AddList("l2", "b1", "Done")
	svc.AddCard("a", "l1", "A")
	svc.AddCard("b", "l1", "B")
	st := store.New(svc, nil)
	ctx := context.Background()
	if _, err := st.LoadBoard(ctx, "b1"); err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}

	// Dropped in place: nothing dispatched.
	plan, err := dnd.Apply(ctx, st, "b1", dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: "l1", Index: 0},
		Destination: &dnd.Location{ParentID: "l1", Index: 0},
	})
	if err != nil || !plan.Noop() {
		t.Fatalf("expected noop, got %+v, %v", plan, err)
	}
	if svc.CountCalls("ReorderCards") != 0 {
		t.Error("noop drag reached the backend")
	}

	_, err = dnd.Apply(ctx, st, "b1", dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: "l1", Index: 1},
		Destination: &dnd.Location{ParentID: "l2", Index: 0},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, cardIDs(st.Cards.ForList("l2"))); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, cardIDs(svc.Cards("l2"))); diff != "" {
		t.Errorf("backend mismatch (-want +got):\n%s", diff)
	}

	_, err = dnd.Apply(ctx, st, "b1", dnd.Result{
		Kind:        dnd.KindList,
		Source:      dnd.Location{ParentID: "b1", Index: 1},
		Destination: &dnd.Location{ParentID: "b1", Index: 0},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	snap := dnd.SnapshotOf(st, "b1")
	if snap.Lists[0].ID != "l2" {
		t.Errorf("expected l2 first, got %s", snap.Lists[0].ID)
	}
	if svc.CountCalls("ReorderLists") != 1 {
		t.Errorf("expected one list reorder, got %d", svc.CountCalls("ReorderLists"))
	}
}

func TestKind_String(t *testing.T) {
	if dnd.KindList.String() != "list" || dnd.KindCard.String() != "card" {
		t.Error("unexpected kind names")
	}
	if dnd.Kind(7).String() != "Kind(7)" {
		t.Errorf("unexpected: %s", dnd.Kind(7))
	}
}
