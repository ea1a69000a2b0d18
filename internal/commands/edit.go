package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"kboard/internal/exitcode"
	"kboard/internal/output"
	"kboard/internal/service"
)

func init() {
	Register(&EditCmd{})
	Register(&CardCmd{})
	Register(&RmCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	board       string
	title       optionalString
	description optionalString
	priority    optionalString
	deadline    optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { _ = c.title.Set(t) }

// SetPriority sets the new priority (for testing).
func (c *EditCmd) SetPriority(p string) { _ = c.priority.Set(p) }

// SetDeadline sets the new deadline (for testing).
func (c *EditCmd) SetDeadline(d string) { _ = c.deadline.Set(d) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a card's fields" }
func (c *EditCmd) Usage() string {
	return "kboard edit [--board <board>] [--title <title>] [--description <text>] [--priority <p>] [--deadline <date|none>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title.reset()
	c.description.reset()
	c.priority.reset()
	c.deadline.reset()
	registerBoardFlag(fs, &c.board)
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.deadline, "deadline", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, n, err := ParseCardRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}
	if n < len(args) {
		return userError(errOut, "unexpected argument: %s", args[n])
	}
	if !c.title.set && !c.description.set && !c.priority.set && !c.deadline.set {
		return userError(errOut, "nothing to change (use --title, --description, --priority or --deadline)")
	}

	// Validate flags before touching the backend.
	var (
		priority service.Priority
		deadline *service.Deadline
	)
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		return userError(errOut, "title required")
	}
	if c.priority.set {
		if priority, err = service.ParsePriority(c.priority.value); err != nil {
			return userError(errOut, "%v", err)
		}
	}
	if c.deadline.set {
		if deadline, err = parseDeadlineFlag(c.deadline.value); err != nil {
			return userError(errOut, "%v", err)
		}
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	_, card, err := v.card(ref)
	if err != nil {
		return env.report(errOut, err)
	}

	in := service.InputFromCard(card)
	if c.title.set {
		in.Title = strings.TrimSpace(c.title.value)
	}
	if c.description.set {
		in.Description = c.description.value
	}
	if c.priority.set {
		in.Priority = priority
	}
	if c.deadline.set {
		in.Deadline = deadline
	}

	if _, err := env.Store.Cards.Update(ctx, card.ID, in); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}

// CardCmd implements the card command.
type CardCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *CardCmd) SetBoard(b string) { c.board = b }

func (c *CardCmd) Name() string      { return "card" }
func (c *CardCmd) Aliases() []string { return nil }
func (c *CardCmd) Synopsis() string  { return "Show a card with its description" }
func (c *CardCmd) Usage() string     { return "kboard card [--board <board>] <ref>" }
func (c *CardCmd) NeedsAuth() bool   { return true }

func (c *CardCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *CardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, _, err := ParseCardRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	_, card, err := v.card(ref)
	if err != nil {
		return env.report(errOut, err)
	}

	output.New(out).CardDetail(ref.String(), card)
	return exitcode.Success
}

// RmCmd implements the rm command.
type RmCmd struct {
	board string
}

// SetBoard sets the board (for testing).
func (c *RmCmd) SetBoard(b string) { c.board = b }

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a card" }
func (c *RmCmd) Usage() string     { return "kboard rm [--board <board>] <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, _, err := ParseCardRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	_, card, err := v.card(ref)
	if err != nil {
		return env.report(errOut, err)
	}

	if err := env.Store.Cards.Delete(ctx, card.ID); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}
