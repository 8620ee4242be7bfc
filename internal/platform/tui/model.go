package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// helpHeight is the number of terminal rows reserved below the game for the
// help bar.
const helpHeight = 1

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       GameKeyMap
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	status     string // last save/screenshot outcome, shown in the help bar
	quitting   bool
	saved      bool // Whether the current game over has been handled
}

// NewModel creates a new Bubble Tea model for the given game. store may be
// nil, in which case finished games are not recorded.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	cfg.ScreenH = max(cfg.ScreenH-helpHeight, 0)
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keys := DefaultGameKeyMap()
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		keys:       keys,
		keyMapper:  NewKeyMapper(keys),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if quit := m.keyMapper.MapKeyToFrame(msg, &m.inputFrame); quit {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(msg.Height-helpHeight, 0)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}

	// Games without resize support restart with the new dimensions.
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)

	if m.gameState.GameOver && !result.State.GameOver {
		// The game restarted itself.
		m.saved = false
		m.status = ""
	}
	m.gameState = result.State

	if m.gameState.GameOver && !m.saved {
		m.recordGame()
		m.saved = true
	}

	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// recordGame stores the finished game's replay, if the game and the store
// support it. Failures are logged; play continues regardless.
func (m *Model) recordGame() {
	m.logger.Info("game over",
		"game", m.game.ID(),
		"score", m.gameState.Score,
		"lines", m.gameState.Lines,
		"level", m.gameState.Level,
		"won", m.gameState.Won,
	)

	rec, ok := m.game.(registry.Recorder)
	if !ok || m.store == nil {
		return
	}
	recording, ok := rec.Recording()
	if !ok {
		return
	}

	id, err := m.store.SaveReplay(ReplayFromRecording(recording))
	if err != nil {
		m.logger.Error("cannot save replay", "err", err)
		m.status = "replay not saved"
		return
	}
	m.logger.Info("replay saved", "id", id, "game", recording.GameID)
	m.status = fmt.Sprintf("replay #%d saved", id)
}

// ReplayFromRecording converts a finished game into a storage row.
func ReplayFromRecording(r registry.Recording) storage.Replay {
	return storage.Replay{
		GameID:  r.GameID,
		Seed:    r.Seed,
		Journal: r.Journal,
		Config:  r.Config,
		Score:   r.Score,
		Lines:   r.Lines,
		Level:   r.Level,
		Pieces:  r.Pieces,
		Won:     r.Won,
	}
}

// RecordingFromReplay is the inverse of ReplayFromRecording.
func RecordingFromReplay(r storage.Replay) registry.Recording {
	return registry.Recording{
		GameID:  r.GameID,
		Seed:    r.Seed,
		Journal: r.Journal,
		Config:  r.Config,
		Score:   r.Score,
		Lines:   r.Lines,
		Level:   r.Level,
		Pieces:  r.Pieces,
		Won:     r.Won,
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".blockfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.status = "screenshot saved"
}

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	bar := helpStyle.Render(m.help.View(m.keys))
	if m.status != "" {
		bar = statusStyle.Render(m.status) + "  " + bar
	}
	return RenderScreen(m.screen) + "\n" + bar
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given model and returns the
// state the game was in when the player quit.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) (core.GameState, error) {
	model := NewModel(game, store, logger, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return core.GameState{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.State(), nil
	}
	return core.GameState{}, nil
}
