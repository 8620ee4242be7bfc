package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets returns every preset in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// Valid reports whether p is a known preset.
func (p DifficultyPreset) Valid() bool {
	switch p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return true
	}
	return false
}

// gravityScale returns the multiplier applied to every gravity entry,
// as a numerator over 2.
func gravityScale(p DifficultyPreset) int {
	switch p {
	case DifficultyEasy:
		return 3
	case DifficultyHard:
		return 1
	default:
		return 2
	}
}

// ApplyTetrisPreset rewrites the gravity table for a preset and records it.
// Easy slows every level by half, hard doubles the speed, fixed keeps the
// level 0 speed for the whole game. Delays never drop below one tick.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if !preset.Valid() || len(cfg.Gravity.Frames) == 0 {
		return
	}
	cfg.Difficulty.Preset = preset

	if preset == DifficultyFixed {
		// Levels past the end of the table keep its last entry.
		cfg.Gravity.Frames = []int{cfg.Gravity.Frames[0]}
		return
	}

	scale := gravityScale(preset)
	frames := make([]int, len(cfg.Gravity.Frames))
	for i, f := range cfg.Gravity.Frames {
		frames[i] = max(1, f*scale/2)
	}
	cfg.Gravity.Frames = frames
}
