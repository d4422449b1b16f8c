package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagMessagesCount int

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Print a batch of notes from the configured source",
	Long: `Ask the note source for a batch of short lines, the same way Zen mode
does, and print one per line. Useful for checking provider settings.

When the provider is unset, unreachable or returns nothing usable, the
fallback list is printed instead.

Examples:
  tissues messages
  tissues messages --count 3
  TISSUES_PROVIDER=anthropic TISSUES_API_KEY=... tissues messages`,
	Args: cobra.NoArgs,
	RunE: runMessages,
}

func init() {
	messagesCmd.Flags().IntVar(&flagMessagesCount, "count", 0, "Number of notes (default from config batch_size)")
}

func runMessages(cmd *cobra.Command, _ []string) error {
	a, err := wireApp(settings, wireOptions{prefix: "tissues", stderr: true})
	if err != nil {
		return err
	}
	defer a.close()

	count := flagMessagesCount
	if count <= 0 {
		count = a.cfg.Messages.BatchSize
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Settings().RequestTimeout)
	defer cancel()

	lines, err := a.source.Request(ctx, count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
