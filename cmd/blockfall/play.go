package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagNoRecord   bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game",
	Long: `Start playing. Without a mode, a menu lets you pick the mode and
difficulty, and you return to it after each game.

Modes:
  marathon - Play until the stack reaches the top (id: tetris)
  sprint   - Clear the configured number of lines (id: tetris_sprint)

Controls:
  Left/Right, A/D  - Move
  Down, S          - Soft drop
  Space            - Hard drop
  Up, X / Z        - Rotate clockwise / counterclockwise
  C                - Hold
  P/Esc            - Pause
  R                - Restart (after game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Gravity 1.5x slower at every level
  normal - Standard gravity curve
  hard   - Gravity twice as fast at every level
  fixed  - No speed-up, every level falls at level 0 speed

Examples:
  blockfall play
  blockfall play marathon --difficulty easy
  blockfall play sprint --seed 42
  blockfall play --config ./my-rules.yaml --no-record`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save replays of finished games")
}

// resolveGameID accepts a mode name or a registered game ID.
func resolveGameID(arg string) string {
	switch tetris.Mode(arg) {
	case tetris.ModeMarathon:
		return tetris.IDMarathon
	case tetris.ModeSprint:
		return tetris.IDSprint
	}
	return arg
}

func runPlay(cmd *cobra.Command, args []string) error {
	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)

	// Check the rules up front; Reset would silently fall back to defaults.
	rules, src, err := tetris.LoadConfig()
	if err != nil {
		return err
	}
	logger.Debug("rules loaded", "source", src, "preset", rules.Difficulty.Preset)

	var gameID string
	if len(args) > 0 {
		gameID = resolveGameID(args[0])
		if !registry.Exists(gameID) {
			return fmt.Errorf("unknown mode %q\nRun 'blockfall list' to see available modes", args[0])
		}
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	var store *storage.Store
	if !flagNoRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			// Continue without storage - game still works
			logger.Warn("could not open replay database, games will not be recorded", "error", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	gameLog, closeLog := gameLogger()
	defer closeLog()

	if gameID == "" {
		defaultPreset := config.DifficultyPreset(flagDifficulty)
		if defaultPreset == "" {
			defaultPreset = rules.Difficulty.Preset
		}
		return runMenuLoop(store, gameLog, cfg, defaultPreset)
	}

	if err := playGame(gameID, store, gameLog, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runMenuLoop alternates between the menu and the chosen game or the replay
// browser until the player quits.
func runMenuLoop(store *storage.Store, gameLog *log.Logger, cfg core.RuntimeConfig, defaultPreset config.DifficultyPreset) error {
	for {
		result, err := tui.RunMenu(cfg, defaultPreset)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = result.Config

		switch {
		case result.Quit:
			return nil

		case result.OpenReplays:
			if store == nil {
				logger.Warn("replay database unavailable")
				return nil
			}
			goBack, err := tui.RunReplayBrowser(store, verifyReplay, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			defaultPreset = result.Preset
			tetris.SetDifficultyPreset(string(result.Preset))
			if err := playGame(result.GameID, store, gameLog, cfg); err != nil {
				return fmt.Errorf("running game: %w", err)
			}
		}
	}
}

func playGame(gameID string, store *storage.Store, gameLog *log.Logger, cfg core.RuntimeConfig) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	// Fresh seed for each game unless one was given
	if flagSeed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	state, err := tui.Run(game, store, gameLog, cfg)
	if err != nil {
		return err
	}
	logger.Info("game finished",
		"mode", gameID,
		"score", state.Score,
		"lines", state.Lines,
		"level", state.Level,
		"won", state.Won,
	)
	return nil
}
