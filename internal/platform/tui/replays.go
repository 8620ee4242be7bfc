package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// maxReplays is the number of rows loaded per filter.
const maxReplays = 100

// VerifyFunc re-simulates a stored replay and reports whether it reaches the
// recorded outcome.
type VerifyFunc func(storage.Replay) error

// ReplayKeyMap defines the key bindings for the replay browser.
type ReplayKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Verify     key.Binding
	Delete     key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Delete, k.NextFilter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Verify, k.Delete, k.Back, k.Quit},
	}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// replayFilter narrows the list to one game; an empty ID shows every game.
type replayFilter struct {
	ID    string
	Title string
}

// ReplayBrowser is the Bubble Tea model for browsing stored replays.
type ReplayBrowser struct {
	filters   []replayFilter
	filter    int
	store     *storage.Store
	verify    VerifyFunc
	replays   []storage.Replay
	table     table.Model
	help      help.Model
	keys      ReplayKeyMap
	width     int
	height    int
	status    string
	quitting  bool
	goingBack bool
}

// NewReplayBrowser creates a replay browser. verify may be nil, in which
// case the verify key does nothing.
func NewReplayBrowser(store *storage.Store, verify VerifyFunc, width, height int) ReplayBrowser {
	filters := []replayFilter{{Title: "All"}}
	for _, g := range registry.List() {
		filters = append(filters, replayFilter{ID: g.ID, Title: g.Title})
	}

	m := ReplayBrowser{
		filters: filters,
		store:   store,
		verify:  verify,
		keys:    DefaultReplayKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.loadReplays()

	return m
}

// createTable creates a new table sized to the window.
func (m *ReplayBrowser) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Mode", Width: 8},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Lvl", Width: 4},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // title, tabs, status, help and borders
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadReplays loads the replays for the current filter.
func (m *ReplayBrowser) loadReplays() {
	m.replays = nil
	if m.store != nil {
		replays, err := m.store.RecentReplays(m.filters[m.filter].ID, maxReplays)
		if err != nil {
			m.status = fmt.Sprintf("cannot load replays: %v", err)
		} else {
			m.replays = replays
		}
	}
	m.updateTableRows()
}

func modeLabel(gameID string) string {
	if g, ok := strings.CutPrefix(gameID, "tetris_"); ok {
		return g
	}
	if gameID == "tetris" {
		return "marathon"
	}
	return gameID
}

// updateTableRows refreshes the table from the loaded replays.
func (m *ReplayBrowser) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		score := strconv.Itoa(r.Score)
		if r.Won {
			score += "*"
		}
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			modeLabel(r.GameID),
			score,
			strconv.Itoa(r.Lines),
			strconv.Itoa(r.Level),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// selectedReplay returns the replay under the cursor.
func (m ReplayBrowser) selectedReplay() (storage.Replay, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.Replay{}, false
	}
	return m.replays[i], true
}

// Init initializes the browser.
func (m ReplayBrowser) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplayBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.status = ""
			m.table.GotoTop()
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter + len(m.filters) - 1) % len(m.filters)
			m.status = ""
			m.table.GotoTop()
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.Verify):
			m.verifySelected()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ReplayBrowser) verifySelected() {
	r, ok := m.selectedReplay()
	if !ok || m.verify == nil {
		return
	}
	if err := m.verify(r); err != nil {
		m.status = fmt.Sprintf("replay #%d FAILED: %v", r.ID, err)
		return
	}
	m.status = fmt.Sprintf("replay #%d verified", r.ID)
}

func (m *ReplayBrowser) deleteSelected() {
	r, ok := m.selectedReplay()
	if !ok || m.store == nil {
		return
	}
	if err := m.store.DeleteReplay(r.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.status = fmt.Sprintf("cannot delete replay #%d: %v", r.ID, err)
		return
	}
	m.status = fmt.Sprintf("replay #%d deleted", r.ID)
	m.loadReplays()
}

var (
	browserTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229"))
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	tableBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
)

// View renders the browser.
func (m ReplayBrowser) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(browserTitleStyle.Render(centerText("REPLAYS", m.width)))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.filters))
	for i, f := range m.filters {
		if i == m.filter {
			tabs[i] = activeTabStyle.Render(f.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + f.Title + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	b.WriteString(tableBoxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ReplayBrowser) renderTableContent() string {
	if len(m.replays) == 0 {
		return emptyStyle.Render("No replays recorded yet.\nFinish a game to record one!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m ReplayBrowser) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplayBrowser) IsQuitting() bool {
	return m.quitting
}

// RunReplayBrowser runs the replay browser.
// Returns true if user wants to go back to the menu, false if quitting.
func RunReplayBrowser(store *storage.Store, verify VerifyFunc, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewReplayBrowser(store, verify, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ReplayBrowser)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
