package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/tagstorm/internal/editor"
	"github.com/dshills/tagstorm/internal/input/key"
)

func newReplayCmd(o *options) *cobra.Command {
	var (
		timeout time.Duration
		noBlur  bool
	)

	cmd := &cobra.Command{
		Use:   "replay [keys...]",
		Short: "Feed key sequences to an editor without a terminal",
		Long: `replay feeds key sequences to an editor and prints the resulting tags.

Each argument, or each line of stdin when there are no arguments, is a
whitespace-separated sequence. Key names such as Enter, Tab, Backspace,
Left or Ctrl+W press that key; any other token is typed character by
character. The input is focused first and blurred at the end, so text
left in the input is added when addOnBlur is on.`,
		Example: `  tagstorm replay "go , rust Enter"
  tagstorm replay --words words.txt "py Down Enter"
  printf 'red Enter\nblue Enter\n' | tagstorm replay --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := args
			if len(lines) == 0 {
				var err error
				lines, err = readLines(cmd)
				if err != nil {
					return err
				}
			}
			return runReplay(cmd, o, lines, timeout, !noBlur)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the editor to settle")
	cmd.Flags().BoolVar(&noBlur, "no-blur", false, "do not blur the input at the end")
	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading keys: %w", err)
	}
	return lines, nil
}

func runReplay(cmd *cobra.Command, o *options, lines []string, timeout time.Duration, blur bool) error {
	var events [][]key.Event
	for i, line := range lines {
		seq, err := key.ParseSequence(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		events = append(events, seq)
	}

	s, err := newSession(cmd.Context(), o, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ed := s.editor
	if err := ed.Focus(ctx); err != nil {
		return err
	}
	for _, seq := range events {
		if err := ed.Feed(ctx, seq); err != nil {
			return err
		}
		if err := ed.Settle(ctx); err != nil {
			return fmt.Errorf("waiting for editor: %w", err)
		}
	}
	if blur {
		if err := ed.Blur(ctx); err != nil {
			return err
		}
		if err := ed.Settle(ctx); err != nil {
			return fmt.Errorf("waiting for editor: %w", err)
		}
	}

	snap, err := ed.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("replayed %d sequences, %d tags", len(events), len(snap.Tags))
	return printReplay(cmd, snap, o.json)
}

func printReplay(cmd *cobra.Command, snap editor.Snapshot, asJSON bool) error {
	if err := printResult(cmd.OutOrStdout(), snap, asJSON); err != nil {
		return err
	}
	if !snap.Validity.Valid() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+invalidReason(snap))
	}
	return nil
}

func invalidReason(snap editor.Snapshot) string {
	switch {
	case !snap.Validity.MaxTags:
		return "too many tags"
	case !snap.Validity.MinTags:
		return "too few tags"
	default:
		return fmt.Sprintf("text %q was not added", snap.Text)
	}
}
