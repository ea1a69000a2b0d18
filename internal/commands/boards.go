package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"kboard/internal/exitcode"
	"kboard/internal/output"
	"kboard/internal/service"
)

func init() {
	Register(&BoardsCmd{})
	Register(&BoardCmd{})
	Register(&UseCmd{})
}

// BoardsCmd implements the boards command.
type BoardsCmd struct{}

func (c *BoardsCmd) Name() string      { return "boards" }
func (c *BoardsCmd) Aliases() []string { return nil }
func (c *BoardsCmd) Synopsis() string  { return "List all boards" }
func (c *BoardsCmd) Usage() string     { return "kboard boards [common flags]" }
func (c *BoardsCmd) NeedsAuth() bool   { return true }

func (c *BoardsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runBoards(ctx, env, out, errOut)
}

func runBoards(ctx context.Context, env *Env, out, errOut io.Writer) int {
	if err := env.Store.Boards.Fetch(ctx); err != nil {
		return env.report(errOut, err)
	}

	boards := env.Store.Boards.All()
	if len(boards) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no boards found")
		}
		return exitcode.Success
	}

	p := output.New(out)
	for i, b := range boards {
		p.BoardLine(i+1, b, isDefaultBoard(env, b))
	}
	return exitcode.Success
}

func isDefaultBoard(env *Env, b service.Board) bool {
	def := strings.TrimSpace(env.Config.DefaultBoard)
	return def != "" && (b.ID == def || strings.EqualFold(strings.TrimSpace(b.Title), def))
}

// BoardCmd implements the board command.
// Handles both `kboard` (no args) and `kboard board <board>`.
type BoardCmd struct{}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"show"} }
func (c *BoardCmd) Synopsis() string  { return "Show a board with its lists and cards" }
func (c *BoardCmd) Usage() string     { return "kboard board [<board>]" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref := strings.TrimSpace(strings.Join(args, " "))

	// Without a board to show, fall back to the board list.
	if ref == "" && strings.TrimSpace(env.Config.DefaultBoard) == "" {
		return runBoards(ctx, env, out, errOut)
	}

	v, err := loadBoard(ctx, env, ref)
	if err != nil {
		return env.report(errOut, err)
	}
	if len(v.Lists) > output.MaxLists {
		return fail(errOut, ErrTooManyLists, "")
	}

	output.New(out).Board(v.Board, v.Lists, v.Cards)
	if len(v.Lists) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no lists (run: kboard mklist <title>)")
	}
	return exitcode.Success
}

// UseCmd implements the use command.
type UseCmd struct{}

func (c *UseCmd) Name() string      { return "use" }
func (c *UseCmd) Aliases() []string { return nil }
func (c *UseCmd) Synopsis() string  { return "Set the default board" }
func (c *UseCmd) Usage() string     { return "kboard use <board>" }
func (c *UseCmd) NeedsAuth() bool   { return true }

func (c *UseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UseCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return userError(errOut, "board name required")
	}

	b, err := resolveBoard(ctx, env, ref)
	if err != nil {
		return env.report(errOut, err)
	}

	env.Config.DefaultBoard = b.ID
	if err := env.Config.Save(); err != nil {
		return userError(errOut, "failed to save config: %v", err)
	}
	return ok(env, out)
}
