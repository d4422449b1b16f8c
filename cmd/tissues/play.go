package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tissue-box/internal/core"
	"github.com/vovakirdan/tissue-box/internal/platform/tui"
	"github.com/vovakirdan/tissue-box/internal/session"
	"github.com/vovakirdan/tissue-box/internal/storage"
)

var flagMode string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Pull tissues in the terminal",
	Long: `Open the tissue box.

Without --mode you pick a mode from the menu. Zen mode is endless and
some tissues carry a short note. The speed challenge counts how many
tissues you pull before the clock runs out.

Controls:
  Space/Up/Enter  - Pull the top tissue
  Mouse drag up   - Pull the tissue you grabbed
  E               - End the session
  R               - Play again (after the end)
  Tab             - Best runs (menu and end screen)
  Esc/B           - Back to menu
  Q/Ctrl+C        - Quit

Examples:
  tissues play
  tissues play --mode zen
  tissues play --mode speed --seed 42
  tissues play --provider openai --log-file /tmp/tissues.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Start directly in a mode: zen or speed")
}

func runPlay(_ *cobra.Command, _ []string) error {
	startMode := session.ModeIdle
	if flagMode != "" {
		mode, ok := session.ParseMode(flagMode)
		if !ok {
			return fmt.Errorf("unknown mode %q (expected zen or speed)", flagMode)
		}
		startMode = mode
	}

	a, err := wireApp(settings, wireOptions{prefix: "tissues"})
	if err != nil {
		return err
	}
	defer a.close()

	// Get terminal size
	def := core.DefaultConfig()
	width, height := def.ScreenW, def.ScreenH
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open run storage
	store, err := storage.Open(a.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	a.logger.Info("starting", "mode", startMode, "provider", a.cfg.Messages.Provider)

	return tui.Run(tui.Options{
		Store: store,
		Config: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			Seed:    a.seed,
		},
		Settings:  a.cfg.Settings(),
		Source:    a.source,
		Logger:    a.logger,
		StartMode: startMode,
	})
}
