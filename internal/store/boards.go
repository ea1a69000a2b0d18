package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"kboard/internal/service"
)

// Boards caches the user's boards and the currently opened board.
type Boards struct {
	*tracker

	svc     service.Service
	mu      sync.RWMutex
	items   []service.Board
	current *service.Board
}

// NewBoards creates an empty board cache backed by svc.
func NewBoards(svc service.Service, log *zap.Logger) *Boards {
	return &Boards{tracker: newTracker("boards", log), svc: svc}
}

// All returns a copy of the cached boards in cache order.
func (b *Boards) All() []service.Board {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]service.Board(nil), b.items...)
}

// Get returns the cached board with id.
func (b *Boards) Get(id string) (service.Board, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, it := range b.items {
		if it.ID == id {
			return it, true
		}
	}
	return service.Board{}, false
}

// Current returns the board last fetched with FetchOne or set with SetCurrent.
func (b *Boards) Current() (service.Board, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return service.Board{}, false
	}
	return *b.current, true
}

// SetCurrent sets the current board without a backend call.
func (b *Boards) SetCurrent(board service.Board) {
	b.mu.Lock()
	b.current = &board
	b.mu.Unlock()
}

// Fetch replaces the cache with the backend's boards.
func (b *Boards) Fetch(ctx context.Context) error {
	return b.run(ctx, "fetch", "Failed to fetch boards", func(ctx context.Context) error {
		boards, err := b.svc.ListBoards(ctx)
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.items = uniqueByID(boards, boardID)
		b.mu.Unlock()
		return nil
	})
}

// FetchOne fetches one board and makes it current.
func (b *Boards) FetchOne(ctx context.Context, id string) (service.Board, error) {
	var board service.Board
	err := b.run(ctx, "fetch-one", "Failed to fetch board", func(ctx context.Context) error {
		var err error
		board, err = b.svc.GetBoard(ctx, id)
		if err != nil {
			return err
		}
		b.SetCurrent(board)
		return nil
	})
	return board, err
}

// Create creates a board and appends it to the cache.
func (b *Boards) Create(ctx context.Context, in service.BoardInput) (service.Board, error) {
	var board service.Board
	err := b.run(ctx, "create", "Failed to create board", func(ctx context.Context) error {
		var err error
		board, err = b.svc.CreateBoard(ctx, in)
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.items = appendUnique(b.items, board, boardID)
		b.mu.Unlock()
		return nil
	})
	return board, err
}

// Update updates a board and replaces it in place, including the current
// board when it matches.
func (b *Boards) Update(ctx context.Context, id string, in service.BoardInput) (service.Board, error) {
	var board service.Board
	err := b.run(ctx, "update", "Failed to update board", func(ctx context.Context) error {
		var err error
		board, err = b.svc.UpdateBoard(ctx, id, in)
		if err != nil {
			return err
		}
		b.mu.Lock()
		replaceByID(b.items, board, boardID)
		if b.current != nil && b.current.ID == board.ID {
			cur := board
			b.current = &cur
		}
		b.mu.Unlock()
		return nil
	})
	return board, err
}

// Delete deletes a board, removes it from the cache and clears the current
// board when it matches.
func (b *Boards) Delete(ctx context.Context, id string) error {
	return b.run(ctx, "delete", "Failed to delete board", func(ctx context.Context) error {
		if err := b.svc.DeleteBoard(ctx, id); err != nil {
			return err
		}
		b.mu.Lock()
		b.items = removeByID(b.items, id, boardID)
		if b.current != nil && b.current.ID == id {
			b.current = nil
		}
		b.mu.Unlock()
		return nil
	})
}
