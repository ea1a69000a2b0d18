// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"kboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	users  map[string]fakeUser // email -> user
	boards []service.Board
	lists  []service.List
	cards  []service.Card
	calls  []string

	// Errs injects an error per method name ("ListCards", "ReorderLists", ...).
	Errs map[string]error

	// ListErrs injects a ListCards error per list ID.
	ListErrs map[string]error
}

type fakeUser struct {
	user     service.User
	password string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:    make(map[string]fakeUser),
		Errs:     make(map[string]error),
		ListErrs: make(map[string]error),
	}
}

// AddUser registers an account that Login accepts.
func (f *FakeService) AddUser(id, name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{user: service.User{ID: id, Name: name, Email: email}, password: password}
}

// AddBoard adds a board.
func (f *FakeService) AddBoard(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards = append(f.boards, service.Board{ID: id, Title: title})
}

// AddList adds a list at the end of its board.
func (f *FakeService) AddList(id, boardID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.List{
		ID:       id,
		BoardID:  boardID,
		Title:    title,
		Position: f.nextListPosition(boardID),
	})
}

// AddCard adds a card at the end of its list.
func (f *FakeService) AddCard(id, listID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, service.Card{
		ID:       id,
		ListID:   listID,
		Title:    title,
		Priority: service.PriorityLow,
		Position: f.nextCardPosition(listID),
	})
}

// PutCard stores card as given, replacing any card with the same ID.
func (f *FakeService) PutCard(card service.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cards {
		if f.cards[i].ID == card.ID {
			f.cards[i] = card
			return
		}
	}
	f.cards = append(f.cards, card)
}

// Calls returns the method names invoked so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.calls...)
}

// CountCalls returns how many times method was invoked.
func (f *FakeService) CountCalls(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

// Cards returns the stored cards of a list by position.
func (f *FakeService) Cards(listID string) []service.Card {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cardsOf(listID)
}

// Card returns the stored card with id.
func (f *FakeService) Card(id string) (service.Card, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.cards {
		if c.ID == id {
			return c, true
		}
	}
	return service.Card{}, false
}

// Lists returns the stored lists of a board by position.
func (f *FakeService) Lists(boardID string) []service.List {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listsOf(boardID)
}

// record notes the call and returns the injected error for method, if any.
// Callers hold f.mu.
func (f *FakeService) record(method string) error {
	f.calls = append(f.calls, method)
	return f.Errs[method]
}

func (f *FakeService) listsOf(boardID string) []service.List {
	var out []service.List
	for _, l := range f.lists {
		if l.BoardID == boardID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *FakeService) cardsOf(listID string) []service.Card {
	var out []service.Card
	for _, c := range f.cards {
		if c.ListID == listID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *FakeService) nextListPosition(boardID string) int {
	pos := 0
	for _, l := range f.lists {
		if l.BoardID == boardID && l.Position > pos {
			pos = l.Position
		}
	}
	return pos + service.PositionStep
}

func (f *FakeService) nextCardPosition(listID string) int {
	pos := 0
	for _, c := range f.cards {
		if c.ListID == listID && c.Position > pos {
			pos = c.Position
		}
	}
	return pos + service.PositionStep
}

func notFound(what string) error {
	return service.Rejected(http.StatusNotFound, what+" not found")
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Login"); err != nil {
		return service.AuthResult{}, err
	}
	u, ok := f.users[creds.Email]
	if !ok || u.password != creds.Password {
		return service.AuthResult{}, service.Rejected(http.StatusUnauthorized, "Invalid email or password")
	}
	return service.AuthResult{Token: "token-" + u.user.ID, User: u.user}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Register"); err != nil {
		return service.AuthResult{}, err
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return service.AuthResult{}, service.Rejected(http.StatusBadRequest, "Missing required fields")
	}
	if _, exists := f.users[reg.Email]; exists {
		return service.AuthResult{}, service.Rejected(http.StatusBadRequest, "Email already registered")
	}
	u := service.User{ID: uuid.NewString(), Name: reg.Name, Email: reg.Email}
	f.users[reg.Email] = fakeUser{user: u, password: reg.Password}
	return service.AuthResult{Token: "token-" + u.ID, User: u}, nil
}

// ListBoards implements service.Service.
func (f *FakeService) ListBoards(ctx context.Context) ([]service.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListBoards"); err != nil {
		return nil, err
	}
	return append([]service.Board(nil), f.boards...), nil
}

// GetBoard implements service.Service.
func (f *FakeService) GetBoard(ctx context.Context, boardID string) (service.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetBoard"); err != nil {
		return service.Board{}, err
	}
	for _, b := range f.boards {
		if b.ID == boardID {
			return b, nil
		}
	}
	return service.Board{}, notFound("Board")
}

// CreateBoard implements service.Service.
func (f *FakeService) CreateBoard(ctx context.Context, in service.BoardInput) (service.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateBoard"); err != nil {
		return service.Board{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Board{}, service.Rejected(http.StatusBadRequest, "Title is required")
	}
	b := service.Board{ID: uuid.NewString(), Title: in.Title, Description: in.Description}
	f.boards = append(f.boards, b)
	return b, nil
}

// UpdateBoard implements service.Service.
func (f *FakeService) UpdateBoard(ctx context.Context, boardID string, in service.BoardInput) (service.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateBoard"); err != nil {
		return service.Board{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Board{}, service.Rejected(http.StatusBadRequest, "Title is required")
	}
	for i := range f.boards {
		if f.boards[i].ID == boardID {
			f.boards[i].Title = in.Title
			f.boards[i].Description = in.Description
			return f.boards[i], nil
		}
	}
	return service.Board{}, notFound("Board")
}

// DeleteBoard implements service.Service.
func (f *FakeService) DeleteBoard(ctx context.Context, boardID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteBoard"); err != nil {
		return err
	}
	for i, b := range f.boards {
		if b.ID == boardID {
			f.boards = append(f.boards[:i], f.boards[i+1:]...)
			return nil
		}
	}
	return notFound("Board")
}

// ListLists implements service.Service.
func (f *FakeService) ListLists(ctx context.Context, boardID string) ([]service.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListLists"); err != nil {
		return nil, err
	}
	return f.listsOf(boardID), nil
}

// CreateList implements service.Service.
func (f *FakeService) CreateList(ctx context.Context, in service.ListInput) (service.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateList"); err != nil {
		return service.List{}, err
	}
	if in.Title == "" || in.BoardID == "" {
		return service.List{}, service.Rejected(http.StatusBadRequest, "Title and board_id are required")
	}
	l := service.List{
		ID:       uuid.NewString(),
		Title:    in.Title,
		BoardID:  in.BoardID,
		Position: f.nextListPosition(in.BoardID),
	}
	f.lists = append(f.lists, l)
	return l, nil
}

// RenameList implements service.Service.
func (f *FakeService) RenameList(ctx context.Context, listID, title string) (service.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RenameList"); err != nil {
		return service.List{}, err
	}
	if title == "" {
		return service.List{}, service.Rejected(http.StatusBadRequest, "Title is required")
	}
	for i := range f.lists {
		if f.lists[i].ID == listID {
			f.lists[i].Title = title
			return f.lists[i], nil
		}
	}
	return service.List{}, notFound("List")
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteList"); err != nil {
		return err
	}
	for i, l := range f.lists {
		if l.ID == listID {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			kept := f.cards[:0]
			for _, c := range f.cards {
				if c.ListID != listID {
					kept = append(kept, c)
				}
			}
			f.cards = kept
			return nil
		}
	}
	return notFound("List")
}

// ReorderLists implements service.Service.
func (f *FakeService) ReorderLists(ctx context.Context, order service.ListOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ReorderLists"); err != nil {
		return err
	}
	for i, id := range order.ListIDs {
		for j := range f.lists {
			if f.lists[j].ID == id {
				f.lists[j].Position = i * service.PositionStep
			}
		}
	}
	return nil
}

// ListCards implements service.Service.
func (f *FakeService) ListCards(ctx context.Context, listID string) ([]service.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListCards"); err != nil {
		return nil, err
	}
	if err := f.ListErrs[listID]; err != nil {
		return nil, err
	}
	return f.cardsOf(listID), nil
}

// CreateCard implements service.Service.
func (f *FakeService) CreateCard(ctx context.Context, in service.CardInput) (service.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateCard"); err != nil {
		return service.Card{}, err
	}
	if in.Title == "" || in.ListID == "" {
		return service.Card{}, service.Rejected(http.StatusBadRequest, "Title and list_id are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = service.PriorityLow
	}
	c := service.Card{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		Priority:    priority,
		ListID:      in.ListID,
		Position:    f.nextCardPosition(in.ListID),
	}
	f.cards = append(f.cards, c)
	return c, nil
}

// UpdateCard implements service.Service.
func (f *FakeService) UpdateCard(ctx context.Context, cardID string, in service.CardInput) (service.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateCard"); err != nil {
		return service.Card{}, err
	}
	if in.Title == "" {
		return service.Card{}, service.Rejected(http.StatusBadRequest, "Title is required")
	}
	for i := range f.cards {
		if f.cards[i].ID == cardID {
			c := &f.cards[i]
			c.Title = in.Title
			c.Description = in.Description
			if in.Deadline != nil {
				c.Deadline = in.Deadline
				if !in.Deadline.IsSet() {
					c.Deadline = nil
				}
			}
			if in.Priority != "" {
				c.Priority = in.Priority
			}
			return *c, nil
		}
	}
	return service.Card{}, notFound("Card")
}

// DeleteCard implements service.Service.
func (f *FakeService) DeleteCard(ctx context.Context, cardID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteCard"); err != nil {
		return err
	}
	for i, c := range f.cards {
		if c.ID == cardID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return nil
		}
	}
	return notFound("Card")
}

// ReorderCards implements service.Service.
func (f *FakeService) ReorderCards(ctx context.Context, order service.CardOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ReorderCards"); err != nil {
		return err
	}
	for i, id := range order.Cards {
		for j := range f.cards {
			if f.cards[j].ID == id {
				f.cards[j].ListID = order.DestinationListID
				f.cards[j].Position = i * service.PositionStep
			}
		}
	}
	return nil
}
