package commands

import (
	"context"
	"flag"
	"io"

	"kboard/internal/dnd"
)

func init() {
	Register(&RmListCmd{})
	Register(&MoveListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	board string
	force bool
}

// SetBoard sets the board (for testing).
func (c *RmListCmd) SetBoard(b string) { c.board = b }

// SetForce sets the force flag (for testing).
func (c *RmListCmd) SetForce(force bool) { c.force = force }

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string     { return "kboard rmlist [--board <board>] [--force] <list-letter>" }
func (c *RmListCmd) NeedsAuth() bool   { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return userError(errOut, "%v", ErrListRefRequired)
	}
	letter, err := ParseListRef(args[0])
	if err != nil {
		return userError(errOut, "%v", err)
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	list, _, err := v.list(letter)
	if err != nil {
		return env.report(errOut, err)
	}

	// Check if list is empty (unless --force)
	if !c.force && len(v.Cards[list.ID]) > 0 {
		return userError(errOut, "list not empty (use --force)")
	}

	if err := env.Store.Lists.Delete(ctx, list.ID); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// MoveListCmd implements the movelist command.
type MoveListCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *MoveListCmd) SetBoard(b string) { c.board = b }

func (c *MoveListCmd) Name() string      { return "movelist" }
func (c *MoveListCmd) Aliases() []string { return nil }
func (c *MoveListCmd) Synopsis() string  { return "Move a list to another position" }
func (c *MoveListCmd) Usage() string {
	return "kboard movelist [--board <board>] <list-letter> <position>"
}
func (c *MoveListCmd) NeedsAuth() bool { return true }

func (c *MoveListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *MoveListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		return userError(errOut, "list letter and position required")
	}
	letter, err := ParseListRef(args[0])
	if err != nil {
		return userError(errOut, "%v", err)
	}
	pos, err := ParseIndex(args[1])
	if err != nil {
		return userError(errOut, "%v", err)
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	_, from, err := v.list(letter)
	if err != nil {
		return env.report(errOut, err)
	}

	drag := dnd.Result{
		Kind:        dnd.KindList,
		Source:      dnd.Location{ParentID: v.Board.ID, Index: from},
		Destination: &dnd.Location{ParentID: v.Board.ID, Index: min(pos, len(v.Lists)) - 1},
	}
	if _, err := dnd.Apply(ctx, env.Store, v.Board.ID, drag); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}
