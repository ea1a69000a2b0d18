package commands

import (
	"context"
	"flag"
	"io"

	"kboard/internal/dnd"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command.
type MoveCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *MoveCmd) SetBoard(b string) { c.board = b }

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a card within or across lists" }
func (c *MoveCmd) Usage() string {
	return "kboard move [--board <board>] <ref> <list-letter> [<position>]"
}
func (c *MoveCmd) NeedsAuth() bool { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *MoveCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, n, err := ParseCardRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}
	rest := args[n:]
	if len(rest) == 0 {
		return userError(errOut, "destination list required")
	}
	if len(rest) > 2 {
		return userError(errOut, "unexpected argument: %s", rest[2])
	}
	destLetter, err := ParseListRef(rest[0])
	if err != nil {
		return userError(errOut, "%v", err)
	}
	pos := 0
	if len(rest) == 2 {
		if pos, err = ParseIndex(rest[1]); err != nil {
			return userError(errOut, "%v", err)
		}
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	src, _, err := v.card(ref)
	if err != nil {
		return env.report(errOut, err)
	}
	dst, _, err := v.list(destLetter)
	if err != nil {
		return env.report(errOut, err)
	}

	// Without a position the card goes to the end of the destination list.
	size := len(v.Cards[dst.ID])
	if dst.ID != src.ID {
		size++
	}
	to := size - 1
	if pos > 0 {
		to = min(pos, size) - 1
	}

	drag := dnd.Result{
		Kind:        dnd.KindCard,
		Source:      dnd.Location{ParentID: src.ID, Index: ref.Num - 1},
		Destination: &dnd.Location{ParentID: dst.ID, Index: to},
	}
	if _, err := dnd.Apply(ctx, env.Store, v.Board.ID, drag); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}
