// Package main is the entry point for the kboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"kboard/internal/backend/rest"
	"kboard/internal/cli"
	"kboard/internal/commands"
	"kboard/internal/config"
	"kboard/internal/service"
	"kboard/internal/session"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config, sess *session.Session, log *zap.Logger) (service.Service, error) {
		return rest.New(cfg.APIURL, sess, rest.WithLogger(log), rest.WithTimeout(cfg.Timeout)), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
