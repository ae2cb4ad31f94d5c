// Package main runs the tournament client: an interactive shell (or a single
// command) that logs in, registers and reports the current session.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/client/api"
	"github.com/atinyakov/tourney/internal/client/tokenstore"
	"github.com/atinyakov/tourney/internal/client/transport"
	"github.com/atinyakov/tourney/internal/client/ui"
	"github.com/atinyakov/tourney/internal/config"
	"github.com/atinyakov/tourney/internal/logger"
)

var (
	version   string
	buildDate string
)

// main parses options, wires the token store, request pipeline and API client,
// then dispatches to the shell or a one-shot command.
func main() {
	options, err := config.ParseClient(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if options.Version {
		fmt.Printf("Tourney Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "invalid log level:", err)
		os.Exit(2)
	}

	store, err := tokenstore.NewFile(options.TokenFile)
	if err != nil {
		log.Log.Fatal("cannot open token store", zap.String("path", options.TokenFile), zap.Error(err))
	}

	apiURL, err := url.Parse(options.URL)
	if err != nil || apiURL.Host == "" {
		log.Log.Fatal("invalid API URL", zap.String("url", options.URL), zap.Error(err))
	}

	httpClient := transport.NewClient(store,
		transport.WithLogger(log.Log),
		transport.WithHost(apiURL.Host),
	)
	httpClient.Timeout = options.Timeout
	client := api.New(options.URL, httpClient, log.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := ui.NewShell(os.Stdin, os.Stdout, client, store, log.Log)
	if options.Cmd == "shell" {
		shell.Run(ctx)
		return
	}
	if err := shell.RunCommand(ctx, options.Cmd); err != nil {
		stop()
		_ = log.Log.Sync()
		os.Exit(1)
	}
}
