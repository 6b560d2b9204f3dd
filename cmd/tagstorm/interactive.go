package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/tagstorm/internal/app"
)

func runInteractive(cmd *cobra.Command, o *options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal; use the replay command for scripted input")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	// Logs would corrupt the screen, so they only go to --log-file.
	s, err := newSession(ctx, o, nil)
	if err != nil {
		return err
	}
	defer s.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	snap, err := app.New(screen, s.editor, app.WithLogger(s.logger)).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return printResult(cmd.OutOrStdout(), snap, o.json)
}
