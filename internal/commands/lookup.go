package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"kboard/internal/dnd"
	"kboard/internal/exitcode"
	"kboard/internal/output"
	"kboard/internal/service"
	"kboard/internal/session"
)

var (
	// ErrNotFound marks references that match nothing.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange marks card numbers past the end of a list.
	ErrOutOfRange = errors.New("card number out of range")

	// ErrAmbiguous marks board titles that match more than one board.
	ErrAmbiguous = errors.New("ambiguous")

	// ErrNoBoard is returned when neither --board nor a default board is set.
	ErrNoBoard = errors.New("no board selected (use --board or: kboard use <board>)")

	// ErrTooManyLists is returned for boards with lists beyond 'z'.
	ErrTooManyLists = fmt.Errorf("too many lists (max %d)", output.MaxLists)
)

// resolveBoard finds a board by ID or title. An empty ref falls back to the
// configured default board.
func resolveBoard(ctx context.Context, env *Env, ref string) (service.Board, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = strings.TrimSpace(env.Config.DefaultBoard)
	}
	if ref == "" {
		return service.Board{}, ErrNoBoard
	}
	if err := env.Store.Boards.Fetch(ctx); err != nil {
		return service.Board{}, err
	}
	return matchBoard(env.Store.Boards.All(), ref)
}

// matchBoard matches ref against IDs first, then titles (case-insensitive).
func matchBoard(boards []service.Board, ref string) (service.Board, error) {
	for _, b := range boards {
		if b.ID == ref {
			return b, nil
		}
	}
	var matches []service.Board
	for _, b := range boards {
		if strings.EqualFold(strings.TrimSpace(b.Title), ref) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return service.Board{}, fmt.Errorf("board %w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return service.Board{}, fmt.Errorf("%w board name: %s", ErrAmbiguous, ref)
	}
}

// boardView is a loaded board with its lists and cards in display order.
type boardView struct {
	Board service.Board
	dnd.Snapshot
}

// loadBoard resolves ref and loads the board into the caches.
func loadBoard(ctx context.Context, env *Env, ref string) (*boardView, error) {
	b, err := resolveBoard(ctx, env, ref)
	if err != nil {
		return nil, err
	}
	b, err = env.Store.LoadBoard(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &boardView{Board: b, Snapshot: dnd.SnapshotOf(env.Store, b.ID)}, nil
}

// list returns the list with the given letter and its index.
func (v *boardView) list(letter rune) (service.List, int, error) {
	i := int(letter - 'a')
	if i < 0 || i >= len(v.Lists) || i >= output.MaxLists {
		return service.List{}, 0, fmt.Errorf("list letter %w: %c", ErrNotFound, letter)
	}
	return v.Lists[i], i, nil
}

// card returns the list and card a reference points to.
func (v *boardView) card(ref CardRef) (service.List, service.Card, error) {
	list, _, err := v.list(ref.Letter)
	if err != nil {
		return service.List{}, service.Card{}, err
	}
	cards := v.Cards[list.ID]
	if ref.Num < 1 || ref.Num > len(cards) {
		return service.List{}, service.Card{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref)
	}
	return list, cards[ref.Num-1], nil
}

// fail prints the error and returns its exit code. msg, when set, is the
// message recorded by the cache or session that ran the failing operation.
func fail(errOut io.Writer, err error, msg string) int {
	if msg == "" {
		msg = service.Message(err, "")
	}
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return codeFor(err)
}

// report is fail with the store's recorded message.
func (e *Env) report(errOut io.Writer, err error) int {
	msg := ""
	if e.Store != nil {
		msg = e.Store.Err()
	}
	return fail(errOut, err, msg)
}

// codeFor maps an error to an exit code.
func codeFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotLoggedIn), service.IsAuthError(err):
		return exitcode.AuthError
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrAmbiguous),
		errors.Is(err, ErrNoBoard),
		errors.Is(err, ErrTooManyLists),
		errors.Is(err, dnd.ErrIndexOutOfRange):
		return exitcode.UserError
	}
	var e *service.Error
	if errors.As(err, &e) && e.Kind == service.KindRejected && e.Status >= 400 && e.Status < 500 {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// userError prints a usage problem and returns exitcode.UserError.
func userError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints the success marker unless quiet.
func ok(env *Env, out io.Writer) int {
	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// optionalString is a string flag that records whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// reset clears the flag before a new parse.
func (o *optionalString) reset() {
	*o = optionalString{}
}

// parseDeadlineFlag parses --deadline. "none" and "" clear the deadline.
func parseDeadlineFlag(s string) (*service.Deadline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return &service.Deadline{}, nil
	}
	d, err := service.ParseDeadline(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
