package service

import "context"

// Service defines the interface for kanban backend operations.
// All REST calls go through this interface.
// Caches and commands never build HTTP requests directly.
type Service interface {
	// Login authenticates and returns the bearer token and user.
	Login(ctx context.Context, creds Credentials) (AuthResult, error)

	// Register creates an account and returns the bearer token and user.
	Register(ctx context.Context, reg Registration) (AuthResult, error)

	// ListBoards returns the current user's boards.
	ListBoards(ctx context.Context) ([]Board, error)

	// GetBoard returns one board by ID.
	GetBoard(ctx context.Context, boardID string) (Board, error)

	// CreateBoard creates a board and returns it as stored by the backend.
	CreateBoard(ctx context.Context, in BoardInput) (Board, error)

	// UpdateBoard replaces a board's title and description.
	UpdateBoard(ctx context.Context, boardID string, in BoardInput) (Board, error)

	// DeleteBoard deletes a board by ID.
	DeleteBoard(ctx context.Context, boardID string) error

	// ListLists returns a board's lists in position order.
	ListLists(ctx context.Context, boardID string) ([]List, error)

	// CreateList creates a list at the end of its board.
	CreateList(ctx context.Context, in ListInput) (List, error)

	// RenameList changes a list's title.
	RenameList(ctx context.Context, listID, title string) (List, error)

	// DeleteList deletes a list and its cards.
	DeleteList(ctx context.Context, listID string) error

	// ReorderLists persists a board's list order.
	ReorderLists(ctx context.Context, order ListOrder) error

	// ListCards returns a list's cards in position order.
	ListCards(ctx context.Context, listID string) ([]Card, error)

	// CreateCard creates a card at the end of its list.
	CreateCard(ctx context.Context, in CardInput) (Card, error)

	// UpdateCard replaces a card's editable fields.
	UpdateCard(ctx context.Context, cardID string, in CardInput) (Card, error)

	// DeleteCard deletes a card by ID.
	DeleteCard(ctx context.Context, cardID string) error

	// ReorderCards persists a destination list's card order.
	ReorderCards(ctx context.Context, order CardOrder) error
}
