package commands

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"

	"kboard/internal/exitcode"
	"kboard/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email, c.password = email, password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the token" }
func (c *LoginCmd) Usage() string     { return "kboard login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(c.email)
	if email == "" || c.password == "" {
		return userError(errOut, "email and password required")
	}

	creds := service.Credentials{Email: email, Password: c.password}
	if err := env.Session.Authenticate(ctx, env.Service, creds); err != nil {
		return authFailure(errOut, err, env.Session.Err())
	}
	return ok(env, out)
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	email    string
	password string
}

// SetAccount sets the account fields (for testing).
func (c *RegisterCmd) SetAccount(name, email, password string) {
	c.name, c.email, c.password = name, email, password
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "kboard register --name <name> --email <email> --password <password>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	reg := service.Registration{
		Name:     strings.TrimSpace(c.name),
		Email:    strings.TrimSpace(c.email),
		Password: c.password,
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return userError(errOut, "name, email and password required")
	}

	if err := env.Session.Register(ctx, env.Service, reg); err != nil {
		return authFailure(errOut, err, env.Session.Err())
	}
	return ok(env, out)
}

// authFailure reports a failed login or register. Rejections are auth
// errors; transport failures stay backend errors.
func authFailure(errOut io.Writer, err error, msg string) int {
	code := fail(errOut, err, msg)
	var e *service.Error
	if errors.As(err, &e) && e.Kind == service.KindRejected {
		return exitcode.AuthError
	}
	return code
}
