// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall play [mode]         - Play marathon or sprint (menu without a mode)
//	blockfall list                - List available modes
//	blockfall replays             - Browse recorded games
//	blockfall replays list        - Print recorded games
//	blockfall replays verify <id> - Re-simulate a recorded game
//	blockfall replays delete <id> - Delete a recorded game
//	blockfall config              - Print the effective rules as YAML
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.blockfall/replays.db)
//	--log-level <level>  - Set log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/tetris"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

// logger writes to stderr and is used outside the alt screen.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "blockfall",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle game for your terminal",
	Long: `Blockfall is a falling-block puzzle game played in the terminal.
Clear lines by filling rows; the game ends when the stack reaches the top.

Available commands:
  play     - Play marathon or sprint
  list     - Show all available modes
  replays  - Browse, verify and delete recorded games
  config   - Print the effective rules

Examples:
  blockfall play
  blockfall play sprint --difficulty hard
  blockfall replays verify 12
  blockfall config --config ./my-rules.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(configCmd)
}

// gameLogger returns a logger for use while the TUI owns the terminal. It
// writes to ~/.blockfall/blockfall.log; if the file cannot be opened the
// TUI runs without logging.
func gameLogger() (*log.Logger, func()) {
	path := config.UserPath("blockfall.log")
	if path == "" {
		return nil, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("could not create log directory", "error", err)
		return nil, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.Warn("could not open log file", "error", err)
		return nil, func() {}
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
		Level:           logger.GetLevel(),
	})
	return l, func() { f.Close() }
}
