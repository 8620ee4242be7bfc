// Package config provides YAML-based rule configuration and difficulty
// presets for blockfall.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/blockfall/internal/games/tetris/engine"
)

// TetrisConfig contains all tunable rules of a game.
type TetrisConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Rotation   RotationConfig   `yaml:"rotation"`
	Sprint     SprintConfig     `yaml:"sprint"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the playfield size in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScoringConfig defines base points per simultaneous clear count.
type ScoringConfig struct {
	LineScores []int `yaml:"line_scores"`
}

// GravityConfig defines drop delays in ticks, indexed by level.
type GravityConfig struct {
	Frames []int `yaml:"frames"`
}

// RotationConfig defines the wall-kick offsets.
type RotationConfig struct {
	Kicks []int `yaml:"kicks"`
}

// SprintConfig defines the sprint mode goal.
type SprintConfig struct {
	Lines int `yaml:"lines"`
}

// DifficultyConfig selects the preset applied on top of the gravity table.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Engine converts the config into engine rules.
func (c TetrisConfig) Engine() engine.Config {
	return engine.Config{
		Width:      c.Board.Width,
		Height:     c.Board.Height,
		LineScores: append([]int(nil), c.Scoring.LineScores...),
		Gravity:    append([]int(nil), c.Gravity.Frames...),
		Kicks:      append([]int(nil), c.Rotation.Kicks...),
	}
}

// Validate reports the first problem that would stop a game from starting.
func (c TetrisConfig) Validate() error {
	if err := c.Engine().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Sprint.Lines < 1 {
		return fmt.Errorf("%w: sprint.lines = %d, must be positive", ErrInvalid, c.Sprint.Lines)
	}
	if c.Difficulty.Preset != "" && !c.Difficulty.Preset.Valid() {
		return fmt.Errorf("%w: unknown difficulty preset %q", ErrInvalid, c.Difficulty.Preset)
	}
	return nil
}

// DefaultTetrisConfig returns the hardcoded rules, used when no YAML source
// can be read.
func DefaultTetrisConfig() TetrisConfig {
	e := engine.DefaultConfig()
	return TetrisConfig{
		Board:      BoardConfig{Width: e.Width, Height: e.Height},
		Scoring:    ScoringConfig{LineScores: e.LineScores},
		Gravity:    GravityConfig{Frames: e.Gravity},
		Rotation:   RotationConfig{Kicks: e.Kicks},
		Sprint:     SprintConfig{Lines: 40},
		Difficulty: DifficultyConfig{Preset: DifficultyNormal},
	}
}
