// Package main is the entry point for the tagstorm tag editor.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tagstorm [flags]",
		Short: "Edit a list of tags in the terminal",
		Long: `tagstorm edits a list of tags with optional autocomplete.

Type a tag and press Enter (or comma or space, depending on the
configuration) to add it. Backspace on an empty input selects and then
removes the last tag. Press Ctrl-C when done; the final tags are printed
one per line, or as JSON with --json.`,
		Version:      version + " (" + commit + ")",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	opts.register(root)
	root.AddCommand(newReplayCmd(opts))
	return root
}
