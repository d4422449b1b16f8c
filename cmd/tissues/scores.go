package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tissue-box/internal/platform/tui"
	"github.com/vovakirdan/tissue-box/internal/session"
	"github.com/vovakirdan/tissue-box/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [zen|speed]",
	Short: "Show the best runs",
	Long: `Display the best recorded runs.

In a terminal this opens the interactive board; use --plain (or pipe the
output) for a text listing. Without a mode, both modes are listed.

Examples:
  tissues scores
  tissues scores speed --plain
  tissues scores zen --limit 5
  tissues scores speed --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to list")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print a text listing instead of the interactive board")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all runs for the given mode")
}

func runScores(cmd *cobra.Command, args []string) error {
	modes := []session.Mode{session.ModeUntimed, session.ModeTimed}
	if len(args) == 1 {
		mode, ok := session.ParseMode(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q (expected zen or speed)", args[0])
		}
		modes = []session.Mode{mode}
	}

	// Open run storage
	store, err := storage.Open(settings.GetString(keyDB))
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagScoresClear {
		if len(args) == 0 {
			return fmt.Errorf("--clear needs a mode")
		}
		if err := store.ClearRuns(modes[0].String()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared %s runs.\n", modes[0])
		return nil
	}

	if !flagScoresPlain && out == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height, termErr := term.GetSize(int(os.Stdout.Fd()))
		if termErr != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(store, modes[0], width, height)
	}

	for i, mode := range modes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := printRuns(out, store, mode, flagScoresLimit); err != nil {
			return err
		}
	}
	return nil
}

// printRuns writes a text table of the best runs for one mode.
func printRuns(out io.Writer, store *storage.Store, mode session.Mode, limit int) error {
	runs, err := store.TopRuns(mode.String(), limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Best runs - %s\n", mode)
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'tissues play --mode %s' to set the first one!\n", mode)
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-12s  %s\n", "Rank", "Pulls", "Time", "Player", "Date")
	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-12s  %s\n", "----", "-----", "----", "------", "----")

	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		fmt.Fprintf(out, "  %-4d  %-6d  %-8s  %-12s  %s\n",
			i+1, r.Pulls, time.Duration(r.Duration)*time.Second, player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show aggregate stats
	stats, err := store.Stats(mode.String())
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d  Runs: %d  Average: %.1f  Total pulled: %d\n",
			stats.BestPulls, stats.RunsCount, stats.AvgPulls, stats.TotalPulls)
	}
	return nil
}
