package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"kboard/internal/service"
)

func init() {
	Register(&MkBoardCmd{})
	Register(&EditBoardCmd{})
	Register(&RmBoardCmd{})
}

// MkBoardCmd implements the mkboard command.
type MkBoardCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *MkBoardCmd) SetDescription(d string) {
	c.description = d
}

func (c *MkBoardCmd) Name() string      { return "mkboard" }
func (c *MkBoardCmd) Aliases() []string { return []string{"addboard"} }
func (c *MkBoardCmd) Synopsis() string  { return "Create a board" }
func (c *MkBoardCmd) Usage() string     { return "kboard mkboard [--description <text>] <title...>" }
func (c *MkBoardCmd) NeedsAuth() bool   { return true }

func (c *MkBoardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *MkBoardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(errOut, "title required")
	}

	in := service.BoardInput{Title: title, Description: c.description}
	if _, err := env.Store.Boards.Create(ctx, in); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// EditBoardCmd implements the editboard command.
type EditBoardCmd struct {
	title       optionalString
	description optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditBoardCmd) SetTitle(t string) { _ = c.title.Set(t) }

// SetDescription sets the new description (for testing).
func (c *EditBoardCmd) SetDescription(d string) { _ = c.description.Set(d) }

func (c *EditBoardCmd) Name() string      { return "editboard" }
func (c *EditBoardCmd) Aliases() []string { return nil }
func (c *EditBoardCmd) Synopsis() string  { return "Change a board's title or description" }
func (c *EditBoardCmd) Usage() string {
	return "kboard editboard [--title <title>] [--description <text>] <board>"
}
func (c *EditBoardCmd) NeedsAuth() bool { return true }

func (c *EditBoardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title.reset()
	c.description.reset()
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditBoardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return userError(errOut, "board name required")
	}
	if !c.title.set && !c.description.set {
		return userError(errOut, "nothing to change (use --title or --description)")
	}

	b, err := resolveBoard(ctx, env, ref)
	if err != nil {
		return env.report(errOut, err)
	}

	in := service.BoardInput{Title: b.Title, Description: b.Description}
	if c.title.set {
		in.Title = strings.TrimSpace(c.title.value)
		if in.Title == "" {
			return userError(errOut, "title required")
		}
	}
	if c.description.set {
		in.Description = c.description.value
	}

	if _, err := env.Store.Boards.Update(ctx, b.ID, in); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// RmBoardCmd implements the rmboard command.
type RmBoardCmd struct{}

func (c *RmBoardCmd) Name() string      { return "rmboard" }
func (c *RmBoardCmd) Aliases() []string { return nil }
func (c *RmBoardCmd) Synopsis() string  { return "Delete a board" }
func (c *RmBoardCmd) Usage() string     { return "kboard rmboard <board>" }
func (c *RmBoardCmd) NeedsAuth() bool   { return true }

func (c *RmBoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmBoardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return userError(errOut, "board name required")
	}

	b, err := resolveBoard(ctx, env, ref)
	if err != nil {
		return env.report(errOut, err)
	}
	if err := env.Store.Boards.Delete(ctx, b.ID); err != nil {
		return env.report(errOut, err)
	}

	// Forget the default board once it is gone.
	if isDefaultBoard(env, b) {
		env.Config.DefaultBoard = ""
		if err := env.Config.Save(); err != nil {
			return userError(errOut, "failed to save config: %v", err)
		}
	}
	return ok(env, out)
}
