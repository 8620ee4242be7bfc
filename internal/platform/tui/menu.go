package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	GameID string // empty for the replay browser entry
	Title  string
}

// MenuModel is the Bubble Tea model for the main menu. Picking a game opens
// a second page to choose the difficulty preset.
type MenuModel struct {
	items        []MenuItem
	presets      []config.DifficultyPreset
	cursor       int
	presetCursor int
	inPresets    bool
	width        int
	height       int
	config       core.RuntimeConfig
	quitting     bool
	selected     *MenuItem
	preset       config.DifficultyPreset
	openReplays  bool
}

// NewMenuModel creates a new menu model. defaultPreset positions the cursor
// on the difficulty page.
func NewMenuModel(cfg core.RuntimeConfig, defaultPreset config.DifficultyPreset) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}
	items = append(items, MenuItem{Title: "Replays"})

	presets := config.Presets()
	presetCursor := 0
	for i, p := range presets {
		if p == defaultPreset {
			presetCursor = i
		}
	}

	return MenuModel{
		items:        items,
		presets:      presets,
		presetCursor: presetCursor,
		width:        cfg.ScreenW,
		height:       cfg.ScreenH,
		config:       cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inPresets {
			return m.handlePresetKey(MapKeyToMenuAction(msg))
		}
		return m.handleKey(MapKeyToMenuAction(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		item := m.items[m.cursor]
		if item.GameID == "" {
			m.openReplays = true
			return m, tea.Quit
		}
		m.selected = &item
		m.inPresets = true
	}

	return m, nil
}

func (m MenuModel) handlePresetKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case MenuActionDown:
		if m.presetCursor < len(m.presets)-1 {
			m.presetCursor++
		}
	case MenuActionSelect:
		m.preset = m.presets[m.presetCursor]
		return m, tea.Quit
	case MenuActionBack:
		m.inPresets = false
		m.selected = nil
	}

	return m, nil
}

var presetNotes = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "slower gravity",
	config.DifficultyNormal: "standard curve",
	config.DifficultyHard:   "twice as fast",
	config.DifficultyFixed:  "level 0 speed forever",
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inPresets {
		return m.viewPresets()
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("B L O C K F A L L", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Q: Quit", m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) viewPresets() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.selected.Title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, p := range m.presets {
		cursor := "  "
		if i == m.presetCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-7s %s", cursor, p, presetNotes[p])
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID      string
	Preset      config.DifficultyPreset
	Config      core.RuntimeConfig
	OpenReplays bool
	Quit        bool
}

// Result summarizes the menu's final state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.config}
	switch {
	case m.openReplays:
		result.OpenReplays = true
	case m.quitting || m.selected == nil || m.preset == "":
		result.Quit = true
	default:
		result.GameID = m.selected.GameID
		result.Preset = m.preset
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, defaultPreset config.DifficultyPreset) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg, defaultPreset),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
