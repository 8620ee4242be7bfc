package tetris

import "github.com/vovakirdan/blockfall/internal/games/tetris/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateWin         GameStateType = "win"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Seed    int64
	Ops     int // journal length
	Gravity int // ticks until the next gravity step
	State   GameStateType
	Engine  engine.Snapshot
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.state != nil && g.state.GameOver():
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Seed:    g.seed,
		Ops:     len(g.journal),
		Gravity: g.gravity,
		State:   state,
	}
	if g.state != nil {
		snap.Engine = g.state.Snapshot()
	}
	return snap
}
