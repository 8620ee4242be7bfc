package tetris

import (
	"errors"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/games/tetris/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// ErrReplayMismatch is returned when re-simulating a recording does not
// reach the outcome it claims.
var ErrReplayMismatch = errors.New("tetris: replay mismatch")

func encodeRules(cfg engine.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("tetris: encode rules: %w", err)
	}
	return string(data), nil
}

func decodeRules(s string) (engine.Config, error) {
	var cfg engine.Config
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return cfg, fmt.Errorf("tetris: decode rules: %w", err)
	}
	return cfg, nil
}

// Simulate rebuilds the game a recording describes and applies its journal.
func Simulate(rec registry.Recording) (*engine.State, error) {
	cfg, err := decodeRules(rec.Config)
	if err != nil {
		return nil, err
	}
	ops, err := engine.DecodeJournal(rec.Journal)
	if err != nil {
		return nil, fmt.Errorf("tetris: replay journal: %w", err)
	}

	state, err := engine.New(cfg, engine.NewBag(rand.New(rand.NewSource(rec.Seed))))
	if err != nil {
		return nil, fmt.Errorf("tetris: replay rules: %w", err)
	}
	if err := state.ApplyAll(ops); err != nil {
		return nil, fmt.Errorf("tetris: replay: %w", err)
	}
	return state, nil
}

// Verify re-simulates a recording and checks that it ends with the recorded
// score, lines, level and piece count.
func Verify(rec registry.Recording) (engine.Snapshot, error) {
	state, err := Simulate(rec)
	if err != nil {
		return engine.Snapshot{}, err
	}

	snap := state.Snapshot()
	checks := []struct {
		name      string
		got, want int
	}{
		{"score", snap.Score, rec.Score},
		{"lines", snap.Lines, rec.Lines},
		{"level", snap.Level, rec.Level},
		{"pieces", snap.Pieces, rec.Pieces},
	}
	for _, c := range checks {
		if c.got != c.want {
			return snap, fmt.Errorf("%w: %s is %d, recorded %d", ErrReplayMismatch, c.name, c.got, c.want)
		}
	}
	return snap, nil
}
