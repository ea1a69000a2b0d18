package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kboard/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "kboard help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  kboard                                             Show the default board (or list boards)
  kboard login [common flags] --email <email> --password <password>
  kboard register [common flags] --name <name> --email <email> --password <password>
  kboard logout [common flags]
  kboard whoami [common flags]
  kboard boards [common flags]
  kboard board [common flags] [<board>]
  kboard use [common flags] <board>
  kboard mkboard [common flags] [--description <text>] <title...>
  kboard editboard [common flags] [--title <title>] [--description <text>] <board>
  kboard rmboard [common flags] <board>
  kboard mklist [common flags] [--board <board>] <title...>
  kboard renamelist [common flags] [--board <board>] <list-letter> <title...>
  kboard rmlist [common flags] [--board <board>] [--force] <list-letter>
  kboard movelist [common flags] [--board <board>] <list-letter> <position>
  kboard add [common flags] [--board <board>] [--list <list-letter>] [--priority low|medium|high]
             [--deadline <YYYY-MM-DD>] [--description <text>] <title...>
  kboard card [common flags] [--board <board>] <ref>
  kboard edit [common flags] [--board <board>] [--title <title>] [--description <text>]
              [--priority low|medium|high] [--deadline <YYYY-MM-DD|none>] <ref>
  kboard rm [common flags] [--board <board>] <ref>
  kboard move [common flags] [--board <board>] <ref> <list-letter> [<position>]
  kboard help
  kboard version

References:
  Lists on a board are lettered a, b, c... in board order.
  A card <ref> is the list letter followed by the card number (a1, b12).

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
