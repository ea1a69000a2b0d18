// Package dnd turns drag-and-drop results into list and card reorders.
package dnd

import (
	"context"
	"errors"
	"fmt"

	"kboard/internal/service"
	"kboard/internal/store"
)

// Kind tags what was dragged.
type Kind int

const (
	KindList Kind = iota + 1
	KindCard
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindCard:
		return "card"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Location is a slot within a parent collection: a board for lists, a list
// for cards.
type Location struct {
	ParentID string
	Index    int
}

// Result is the outcome of one drag gesture. A nil Destination means the
// item was dropped outside any target.
type Result struct {
	Kind        Kind
	Source      Location
	Destination *Location
}

// ErrIndexOutOfRange is returned when the source index names no item.
var ErrIndexOutOfRange = errors.New("index out of range")

// Snapshot is the ordered state a drag is applied to.
type Snapshot struct {
	BoardID string

	// Lists are the board's lists in display order.
	Lists []service.List

	// Cards maps list ID to that list's cards in display order.
	Cards map[string][]service.Card
}

// ListMove is the full list sequence after a list drag.
type ListMove struct {
	BoardID string
	Lists   []service.List
}

// CardMove carries both affected card sequences after a card drag.
type CardMove struct {
	SourceListID      string
	DestinationListID string
	Source            []service.Card
	Destination       []service.Card
}

// Plan is what a drag dispatches. Both fields nil means nothing to do.
type Plan struct {
	Lists *ListMove
	Cards *CardMove
}

// Noop reports whether the plan dispatches nothing.
func (p Plan) Noop() bool {
	return p.Lists == nil && p.Cards == nil
}

// IsNoop reports whether r leaves everything in place: no destination, or
// the same parent and index as the source.
func IsNoop(r Result) bool {
	if r.Destination == nil {
		return true
	}
	return r.Destination.ParentID == r.Source.ParentID && r.Destination.Index == r.Source.Index
}

// Compute plans r against snap without touching any cache.
func Compute(r Result, snap Snapshot) (Plan, error) {
	if IsNoop(r) {
		return Plan{}, nil
	}
	switch r.Kind {
	case KindList:
		lists, err := Move(snap.Lists, r.Source.Index, r.Destination.Index)
		if err != nil {
			return Plan{}, err
		}
		return Plan{Lists: &ListMove{BoardID: snap.BoardID, Lists: lists}}, nil

	case KindCard:
		srcID, dstID := r.Source.ParentID, r.Destination.ParentID
		if !snap.known(srcID) {
			return Plan{}, fmt.Errorf("unknown source list: %s", srcID)
		}
		if !snap.known(dstID) {
			return Plan{}, fmt.Errorf("unknown destination list: %s", dstID)
		}
		src := snap.Cards[srcID]
		if r.Source.Index < 0 || r.Source.Index >= len(src) {
			return Plan{}, fmt.Errorf("card %w: %d", ErrIndexOutOfRange, r.Source.Index)
		}

		if srcID == dstID {
			cards, err := Move(src, r.Source.Index, r.Destination.Index)
			if err != nil {
				return Plan{}, err
			}
			return Plan{Cards: &CardMove{
				SourceListID:      srcID,
				DestinationListID: dstID,
				Source:            cards,
				Destination:       cards,
			}}, nil
		}

		moved := src[r.Source.Index]
		moved.ListID = dstID
		newSrc := remove(src, r.Source.Index)
		newDst := insert(snap.Cards[dstID], r.Destination.Index, moved)
		return Plan{Cards: &CardMove{
			SourceListID:      srcID,
			DestinationListID: dstID,
			Source:            newSrc,
			Destination:       newDst,
		}}, nil

	default:
		return Plan{}, fmt.Errorf("unknown drag kind: %v", r.Kind)
	}
}

// Move removes the item at from and inserts it at to. to is clamped to the
// valid range; from must name an item.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, from)
	}
	item := items[from]
	return insert(remove(items, from), to, item), nil
}

func remove[T any](items []T, i int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func insert[T any](items []T, i int, item T) []T {
	if i < 0 {
		i = 0
	}
	if i > len(items) {
		i = len(items)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	return append(out, items[i:]...)
}

func (s Snapshot) known(listID string) bool {
	if _, ok := s.Cards[listID]; ok {
		return true
	}
	for _, l := range s.Lists {
		if l.ID == listID {
			return true
		}
	}
	return false
}

// SnapshotOf reads the current ordering of a board from the caches.
func SnapshotOf(st *store.Store, boardID string) Snapshot {
	lists := st.Lists.ForBoard(boardID)
	cards := make(map[string][]service.Card, len(lists))
	for _, l := range lists {
		cards[l.ID] = st.Cards.ForList(l.ID)
	}
	return Snapshot{BoardID: boardID, Lists: lists, Cards: cards}
}

// Apply plans r against the cached board and dispatches the resulting
// reorder. A no-op drag dispatches nothing and returns an empty plan.
func Apply(ctx context.Context, st *store.Store, boardID string, r Result) (Plan, error) {
	plan, err := Compute(r, SnapshotOf(st, boardID))
	if err != nil || plan.Noop() {
		return plan, err
	}
	if plan.Lists != nil {
		return plan, st.Lists.Reorder(ctx, plan.Lists.BoardID, plan.Lists.Lists)
	}
	m := plan.Cards
	return plan, st.Cards.Reorder(ctx, m.SourceListID, m.DestinationListID, m.Source, m.Destination)
}
