package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"kboard/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored token" }
func (c *LogoutCmd) Usage() string     { return "kboard logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !env.Session.IsAuthenticated() {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := env.Session.End(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	return ok(env, out)
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct {
	now func() time.Time
}

// SetClock replaces the clock used for the expiry check (for testing).
func (c *WhoamiCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the logged-in account" }
func (c *WhoamiCmd) Usage() string     { return "kboard whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	if u, known := env.Session.User(); known {
		fmt.Fprintf(out, "%s <%s>\n", u.Name, u.Email)
	}

	claims, err := env.Session.Claims()
	if err != nil {
		env.Log.Debug("token claims unavailable", zap.Error(err))
		fmt.Fprintln(out, "logged in")
		return exitcode.Success
	}
	if claims.Expired(now()) {
		fmt.Fprintln(errOut, "error: token expired (run: kboard login)")
		return exitcode.AuthError
	}

	fmt.Fprintf(out, "user: %s\n", claims.Subject)
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
	}
	return exitcode.Success
}
