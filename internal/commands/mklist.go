package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"kboard/internal/service"
)

func init() {
	Register(&MkListCmd{})
	Register(&RenameListCmd{})
}

// MkListCmd implements the mklist command.
type MkListCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *MkListCmd) SetBoard(b string) { c.board = b }

func (c *MkListCmd) Name() string      { return "mklist" }
func (c *MkListCmd) Aliases() []string { return []string{"addlist"} }
func (c *MkListCmd) Synopsis() string  { return "Create a list at the end of a board" }
func (c *MkListCmd) Usage() string     { return "kboard mklist [--board <board>] <title...>" }
func (c *MkListCmd) NeedsAuth() bool   { return true }

func (c *MkListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *MkListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(errOut, "list name required")
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	for _, l := range v.Lists {
		if strings.EqualFold(strings.TrimSpace(l.Title), title) {
			return userError(errOut, "list already exists: %s", title)
		}
	}

	in := service.ListInput{Title: title, BoardID: v.Board.ID}
	if _, err := env.Store.Lists.Create(ctx, in); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *RenameListCmd) SetBoard(b string) { c.board = b }

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return nil }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string {
	return "kboard renamelist [--board <board>] <list-letter> <title...>"
}
func (c *RenameListCmd) NeedsAuth() bool { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *RenameListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return userError(errOut, "%v", ErrListRefRequired)
	}
	letter, err := ParseListRef(args[0])
	if err != nil {
		return userError(errOut, "%v", err)
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return userError(errOut, "list name required")
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	list, _, err := v.list(letter)
	if err != nil {
		return env.report(errOut, err)
	}

	if _, err := env.Store.Lists.Rename(ctx, list.ID, title); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// registerBoardFlag registers --board and -b.
func registerBoardFlag(fs *flag.FlagSet, board *string) {
	fs.StringVar(board, "board", "", "")
	fs.StringVar(board, "b", "", "")
}
