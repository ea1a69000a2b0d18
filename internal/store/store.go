// Package store mirrors backend resources in client-side caches.
//
// Each cache is a write-through mirror: mutations go to the backend first and
// are applied locally only once confirmed. Reorders are the exception; they
// apply a local projection immediately and persist it afterwards. Every
// operation runs under its own Request handle; a cache's Loading and Err
// are derived from those handles.
package store

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kboard/internal/service"
)

// maxParallelFetches bounds concurrent card fetches when loading a board.
const maxParallelFetches = 4

// Store groups the board, list and card caches.
type Store struct {
	Boards *Boards
	Lists  *Lists
	Cards  *Cards
}

// New creates empty caches backed by svc.
func New(svc service.Service, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		Boards: NewBoards(svc, log),
		Lists:  NewLists(svc, log),
		Cards:  NewCards(svc, log),
	}
}

// Loading reports whether any cache has an operation in flight.
func (s *Store) Loading() bool {
	return s.Boards.Loading() || s.Lists.Loading() || s.Cards.Loading()
}

// Err returns the first recorded error message among the caches, or "".
func (s *Store) Err() string {
	for _, msg := range []string{s.Boards.Err(), s.Lists.Err(), s.Cards.Err()} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// LoadBoard fetches a board, its lists, and the cards of every list. Card
// fetches run concurrently and merge into the card cache as they complete.
// Caches flagged stale by a rejected reorder are refreshed from scratch.
func (s *Store) LoadBoard(ctx context.Context, boardID string) (service.Board, error) {
	board, err := s.Boards.FetchOne(ctx, boardID)
	if err != nil {
		return service.Board{}, err
	}
	if err := s.Lists.Fetch(ctx, boardID); err != nil {
		return board, err
	}
	if s.Cards.Stale() {
		s.Cards.Reset()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, l := range s.Lists.ForBoard(boardID) {
		listID := l.ID
		g.Go(func() error {
			return s.Cards.Fetch(gctx, listID)
		})
	}
	return board, g.Wait()
}
