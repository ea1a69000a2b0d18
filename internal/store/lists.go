package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"kboard/internal/service"
)

// Lists caches the lists of the board being viewed.
type Lists struct {
	*tracker

	svc   service.Service
	mu    sync.RWMutex
	items []service.List
	stale bool
}

// NewLists creates an empty list cache backed by svc.
func NewLists(svc service.Service, log *zap.Logger) *Lists {
	return &Lists{tracker: newTracker("lists", log), svc: svc}
}

// All returns a copy of the cached lists in cache order.
func (l *Lists) All() []service.List {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]service.List(nil), l.items...)
}

// ForBoard returns the cached lists of one board in cache order.
func (l *Lists) ForBoard(boardID string) []service.List {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []service.List
	for _, it := range l.items {
		if it.BoardID == boardID {
			out = append(out, it)
		}
	}
	return out
}

// Get returns the cached list with id.
func (l *Lists) Get(id string) (service.List, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if it.ID == id {
			return it, true
		}
	}
	return service.List{}, false
}

// Stale reports whether a rejected reorder left the cache out of step with
// the backend. A successful Fetch clears it.
func (l *Lists) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stale
}

// Fetch replaces the cache with the lists of one board.
func (l *Lists) Fetch(ctx context.Context, boardID string) error {
	return l.run(ctx, "fetch", "Failed to fetch lists", func(ctx context.Context) error {
		lists, err := l.svc.ListLists(ctx, boardID)
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.items = uniqueByID(lists, listID)
		l.stale = false
		l.mu.Unlock()
		return nil
	})
}

// Create creates a list and appends it to the cache.
func (l *Lists) Create(ctx context.Context, in service.ListInput) (service.List, error) {
	var list service.List
	err := l.run(ctx, "create", "Failed to create list", func(ctx context.Context) error {
		var err error
		list, err = l.svc.CreateList(ctx, in)
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.items = appendUnique(l.items, list, listID)
		l.mu.Unlock()
		return nil
	})
	return list, err
}

// Rename renames a list and replaces it in place.
func (l *Lists) Rename(ctx context.Context, id, title string) (service.List, error) {
	var list service.List
	err := l.run(ctx, "update", "Failed to update list", func(ctx context.Context) error {
		var err error
		list, err = l.svc.RenameList(ctx, id, title)
		if err != nil {
			return err
		}
		l.mu.Lock()
		replaceByID(l.items, list, listID)
		l.mu.Unlock()
		return nil
	})
	return list, err
}

// Delete deletes a list and removes it from the cache.
func (l *Lists) Delete(ctx context.Context, id string) error {
	return l.run(ctx, "delete", "Failed to delete list", func(ctx context.Context) error {
		if err := l.svc.DeleteList(ctx, id); err != nil {
			return err
		}
		l.mu.Lock()
		l.items = removeByID(l.items, id, listID)
		l.mu.Unlock()
		return nil
	})
}

// Reorder commits ordered as the cache state immediately, with dense
// positions, then persists the order. A rejection keeps the local order and
// marks the cache stale.
func (l *Lists) Reorder(ctx context.Context, boardID string, ordered []service.List) error {
	ordered = uniqueByID(ordered, listID)
	ids := make([]string, len(ordered))
	committed := make([]service.List, len(ordered))
	for i, it := range ordered {
		it.Position = i * service.PositionStep
		committed[i] = it
		ids[i] = it.ID
	}

	l.mu.Lock()
	l.items = committed
	l.mu.Unlock()

	return l.run(ctx, "reorder", "Failed to reorder lists", func(ctx context.Context) error {
		err := l.svc.ReorderLists(ctx, service.ListOrder{BoardID: boardID, ListIDs: ids})
		if err != nil {
			l.mu.Lock()
			l.stale = true
			l.mu.Unlock()
		}
		return err
	})
}
