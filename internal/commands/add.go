package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"kboard/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	board       string
	list        string
	priority    string
	deadline    string
	description string
}

// SetList sets the list letter (for testing).
func (c *AddCmd) SetList(letter string) { c.list = letter }

// SetPriority sets the priority (for testing).
func (c *AddCmd) SetPriority(p string) { c.priority = p }

// SetDeadline sets the deadline (for testing).
func (c *AddCmd) SetDeadline(d string) { c.deadline = d }

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a card" }
func (c *AddCmd) Usage() string {
	return "kboard add [--board <board>] [--list <list-letter>] [--priority <p>] [--deadline <date>] [--description <text>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	registerBoardFlag(fs, &c.board)
	fs.StringVar(&c.list, "list", "a", "")
	fs.StringVar(&c.list, "l", "a", "")
	fs.StringVar(&c.priority, "priority", string(service.PriorityLow), "")
	fs.StringVar(&c.priority, "p", string(service.PriorityLow), "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(errOut, "title required")
	}

	listRef := c.list
	if listRef == "" {
		listRef = "a"
	}
	letter, err := ParseListRef(listRef)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	in := service.CardInput{Title: title, Description: c.description}
	if c.priority != "" {
		if in.Priority, err = service.ParsePriority(c.priority); err != nil {
			return userError(errOut, "%v", err)
		}
	} else {
		in.Priority = service.PriorityLow
	}
	if strings.TrimSpace(c.deadline) != "" {
		if in.Deadline, err = parseDeadlineFlag(c.deadline); err != nil {
			return userError(errOut, "%v", err)
		}
	}

	v, err := loadBoard(ctx, env, c.board)
	if err != nil {
		return env.report(errOut, err)
	}
	if len(v.Lists) == 0 {
		return userError(errOut, "board has no lists (run: kboard mklist <title>)")
	}
	list, _, err := v.list(letter)
	if err != nil {
		return env.report(errOut, err)
	}
	in.ListID = list.ID

	if _, err := env.Store.Cards.Create(ctx, in); err != nil {
		return env.report(errOut, err)
	}
	return ok(env, out)
}
