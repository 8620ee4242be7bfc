// Package tetris adapts the falling-block engine to the platform: it maps
// input frames to engine commands, drives gravity from the tick loop,
// journals every command for replays and draws the playfield.
package tetris

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeMarathon Mode = "marathon"
	ModeSprint   Mode = "sprint"
)

// Registered game IDs.
const (
	IDMarathon = "tetris"
	IDSprint   = "tetris_sprint"
)

// Package-level settings applied on the next Reset, set from the CLI and menus.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file path used by the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset overrides the preset from the config file.
// An empty preset keeps the file's choice.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// DifficultyPreset returns the current override, if any.
func DifficultyPreset() string {
	return difficultyPreset
}

// Game implements registry.Game on top of engine.State.
type Game struct {
	mode  Mode
	cfg   config.TetrisConfig
	state *engine.State

	seed    int64
	journal []engine.Op
	tick    uint64
	gravity int // ticks left until the next gravity step

	screenW int
	screenH int

	paused   bool
	won      bool
	tooSmall bool
}

// New creates a marathon game: play until the stack tops out.
func New() *Game {
	return &Game{mode: ModeMarathon}
}

// NewSprint creates a sprint game: clear the configured number of lines.
func NewSprint() *Game {
	return &Game{mode: ModeSprint}
}

func init() {
	registry.Register(IDMarathon, func() registry.Game {
		return New()
	})
	registry.Register(IDSprint, func() registry.Game {
		return NewSprint()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeSprint {
		return IDSprint
	}
	return IDMarathon
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeSprint {
		return "Blockfall (Sprint)"
	}
	return "Blockfall (Marathon)"
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// LoadConfig resolves the rules for the next game: the config file search
// order, then the difficulty preset override or the file's own preset.
func LoadConfig() (config.TetrisConfig, config.Source, error) {
	cfg, src, err := config.LoadTetris(configPath)
	if err != nil {
		return cfg, src, err
	}

	preset := config.DifficultyPreset(difficultyPreset)
	if preset == "" {
		preset = cfg.Difficulty.Preset
	}
	if preset != "" {
		if !preset.Valid() {
			return cfg, src, fmt.Errorf("%w: unknown difficulty preset %q", config.ErrInvalid, preset)
		}
		config.ApplyTetrisPreset(&cfg, preset)
	}
	return cfg, src, nil
}

// Reset starts a new game. Config errors fall back to the default rules;
// callers that care validate with LoadConfig first.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	rules, _, err := LoadConfig()
	if err != nil {
		rules = config.DefaultTetrisConfig()
	}
	g.start(rules, cfg)
}

// ResetWith starts a new game with explicit rules.
func (g *Game) ResetWith(rules config.TetrisConfig, cfg core.RuntimeConfig) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	g.start(rules, cfg)
	return nil
}

func (g *Game) start(rules config.TetrisConfig, cfg core.RuntimeConfig) {
	state, err := engine.New(rules.Engine(), engine.NewBag(rand.New(rand.NewSource(cfg.Seed))))
	if err != nil {
		// Rules were validated by the caller.
		panic(fmt.Sprintf("tetris: %v", err))
	}

	g.cfg = rules
	g.state = state
	g.seed = cfg.Seed
	g.journal = g.journal[:0]
	g.tick = 0
	g.gravity = state.Delay()
	g.paused = false
	g.won = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.state == nil {
		return
	}
	lw, lh := layoutSize(g.state.Board())
	g.tooSmall = w < lw || h < lh
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && g.over() {
		g.Reset(core.RuntimeConfig{
			Seed:    rand.New(rand.NewSource(g.seed)).Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.over() {
		g.paused = !g.paused
	}

	if g.over() || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	lines := g.state.Lines()
	g.processInput(input)

	if !g.over() {
		g.gravity--
		if g.gravity <= 0 {
			g.apply(engine.OpTick)
			g.gravity = g.state.Delay()
		}
	}

	if g.mode == ModeSprint && g.state.Lines() >= g.cfg.Sprint.Lines {
		g.won = true
	}

	return core.StepResult{
		State:   g.State(),
		Cleared: g.state.Lines() - lines,
	}
}

// inputOps maps actions to commands in the order they are applied when
// several arrive in the same frame.
var inputOps = []struct {
	action core.Action
	op     engine.Op
}{
	{core.ActionHold, engine.OpHold},
	{core.ActionRotateCW, engine.OpRotateCW},
	{core.ActionRotateCCW, engine.OpRotateCCW},
	{core.ActionMoveLeft, engine.OpLeft},
	{core.ActionMoveRight, engine.OpRight},
	{core.ActionSoftDrop, engine.OpSoftDrop},
	{core.ActionHardDrop, engine.OpHardDrop},
}

func (g *Game) processInput(input core.InputFrame) {
	for _, m := range inputOps {
		if g.over() {
			return
		}
		if !input.Has(m.action) {
			continue
		}

		pieces := g.state.Pieces()
		g.apply(m.op)
		if g.state.Pieces() != pieces {
			// A fresh piece gets a full gravity interval.
			g.gravity = g.state.Delay()
		}
	}
}

// apply runs and journals a command. Engine errors mean the board and the
// active piece disagree, which no input can cause, so they are fatal.
func (g *Game) apply(op engine.Op) {
	if err := g.state.Apply(op); err != nil {
		panic(fmt.Sprintf("tetris: %v", err))
	}
	g.journal = append(g.journal, op)
}

func (g *Game) over() bool {
	return g.won || (g.state != nil && g.state.GameOver())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.state == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.state.Score(),
		Level:    g.state.Level(),
		Lines:    g.state.Lines(),
		GameOver: g.over(),
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Engine exposes the underlying state for read-only queries.
func (g *Game) Engine() *engine.State {
	return g.state
}

// Journal returns the commands applied since the last reset.
func (g *Game) Journal() []engine.Op {
	return append([]engine.Op(nil), g.journal...)
}

// Recording returns the finished game for storage. It reports false while
// the game is still running or if nothing was played.
func (g *Game) Recording() (registry.Recording, bool) {
	if !g.over() || len(g.journal) == 0 {
		return registry.Recording{}, false
	}

	rules, err := encodeRules(g.state.Config())
	if err != nil {
		return registry.Recording{}, false
	}

	return registry.Recording{
		GameID:  g.ID(),
		Seed:    g.seed,
		Journal: engine.EncodeJournal(g.journal),
		Config:  rules,
		Score:   g.state.Score(),
		Lines:   g.state.Lines(),
		Level:   g.state.Level(),
		Pieces:  g.state.Pieces(),
		Won:     g.won,
	}, true
}

var (
	_ registry.Resizer  = (*Game)(nil)
	_ registry.Recorder = (*Game)(nil)
)
