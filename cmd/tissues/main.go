// tissues is a terminal tissue box: pull tissues in Zen mode, where some carry
// a short note, or race the clock in the speed challenge.
//
// Usage:
//
//	tissues play [--mode zen|speed]  - Play in the terminal
//	tissues serve                    - Start SSH server for remote play
//	tissues scores [zen|speed]       - Show the best runs
//	tissues messages [--count n]     - Print a batch of notes from the source
//
// Global flags:
//
//	--config <path>    - Config file (default: ~/.tissues/config.yaml, then ./configs/tissues.yaml)
//	--db <path>        - Runs database (default: ~/.tissues/runs.db)
//	--seed <value>     - RNG seed for tissue tilt
//	--provider <name>  - Note source: none, openai, anthropic
//	--model <name>     - Model for the note source
//	--log-file <path>  - Write logs to a file
//
// Every flag can also be set from the environment as TISSUES_<FLAG>,
// for example TISSUES_PROVIDER=openai. The API key is read from
// TISSUES_API_KEY, falling back to the provider SDK's own variable.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys shared by flags, environment and commands.
const (
	keyConfig   = "config"
	keyDB       = "db"
	keySeed     = "seed"
	keyProvider = "provider"
	keyModel    = "model"
	keyAPIKey   = "api-key"
	keyBaseURL  = "base-url"
	keyLogFile  = "log-file"
)

// settings overlays flags and TISSUES_* environment variables.
var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TISSUES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyDB, "~/.tissues/runs.db")
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tissues",
	Short: "Tissue Box - pull tissues in your terminal",
	Long: `Tissue Box is a small stress-relief toy for the terminal.

Available commands:
  play      - Pull tissues in Zen mode or race the clock
  serve     - Start SSH server for remote play
  scores    - View the best runs
  messages  - Print a batch of notes from the configured source

Examples:
  tissues play
  tissues play --mode speed
  tissues serve --ssh :2222
  tissues scores speed
  TISSUES_PROVIDER=openai tissues messages --count 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "Path to config YAML")
	flags.String(keyDB, "~/.tissues/runs.db", "Path to runs database")
	flags.Int64(keySeed, 0, "RNG seed (0 = random based on time)")
	flags.String(keyProvider, "", "Note source: none, openai, anthropic (default from config)")
	flags.String(keyModel, "", "Model name for the note source (default from config)")
	flags.String(keyLogFile, "", "Write logs to this file")

	for _, key := range []string{keyConfig, keyDB, keySeed, keyProvider, keyModel, keyLogFile} {
		//nolint:errcheck // Flags are registered just above
		settings.BindPFlag(key, flags.Lookup(key))
	}
	// Secrets stay out of the process list: environment only
	//nolint:errcheck // Key is non-empty
	settings.BindEnv(keyAPIKey)
	//nolint:errcheck // Key is non-empty
	settings.BindEnv(keyBaseURL)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(messagesCmd)
}
