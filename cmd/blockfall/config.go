package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective rules as YAML",
	Long: `Resolve the rules the way 'play' does and print them.

Search order: --config, ~/.blockfall/configs/tetris.yaml,
./configs/tetris.yaml, then the built-in defaults. --difficulty (or the
file's difficulty.preset) rescales the gravity table.

Examples:
  blockfall config
  blockfall config --difficulty hard
  blockfall config --config ./my-rules.yaml > rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runConfig(cmd *cobra.Command, args []string) error {
	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)

	rules, src, err := tetris.LoadConfig()
	if err != nil {
		return err
	}

	data, err := rules.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "# source: %s\n", src)
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
