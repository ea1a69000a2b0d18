// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"kboard/internal/config"
	"kboard/internal/service"
	"kboard/internal/session"
	"kboard/internal/store"
)

// Env is everything a command runs against.
type Env struct {
	Config  *config.Config
	Session *session.Session
	Service service.Service
	Store   *store.Store
	Log     *zap.Logger
}

// NewEnv wires the caches to svc.
func NewEnv(cfg *config.Config, sess *session.Session, svc service.Service, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	return &Env{
		Config:  cfg,
		Session: sess,
		Service: svc,
		Store:   store.New(svc, log),
		Log:     log,
	}
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored token.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// env.Config and env.Session are always provided; env.Service and
	// env.Store are nil only for commands that never reach the backend.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
