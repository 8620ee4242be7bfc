package tui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// isolateConfig keeps the game from reading a real user config.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
}

func tick(m tea.Model) tea.Model {
	m, _ = m.Update(TickMsg(time.Now()))
	return m
}

func newTestModel(t *testing.T, store *storage.Store, logs *bytes.Buffer) tea.Model {
	t.Helper()
	isolateConfig(t)

	cfg := core.DefaultConfig()
	cfg.Seed = 99
	m := NewModel(tetris.New(), store, log.New(logs), cfg)
	m.Init()
	return m
}

// hardDropUntilOver presses hard drop every tick until the game ends.
func hardDropUntilOver(t *testing.T, m tea.Model) tea.Model {
	t.Helper()
	for i := 0; !m.(Model).State().GameOver; i++ {
		if i > 1000 {
			t.Fatal("game did not top out")
		}
		m = tick(press(m, runeKey(' ')))
	}
	return m
}

func TestModelRecordsFinishedGame(t *testing.T) {
	store := openTestStore(t)
	var logs bytes.Buffer
	m := hardDropUntilOver(t, newTestModel(t, store, &logs))

	replays, err := store.RecentReplays("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(replays) != 1 {
		t.Fatalf("stored %d replays, want 1", len(replays))
	}
	r := replays[0]
	if r.GameID != tetris.IDMarathon || r.Seed != 99 || r.Journal == "" {
		t.Errorf("replay = %+v", r)
	}
	if r.Score != m.(Model).State().Score {
		t.Errorf("replay score = %d, game score = %d", r.Score, m.(Model).State().Score)
	}
	if _, err := tetris.Verify(RecordingFromReplay(r)); err != nil {
		t.Errorf("stored replay does not verify: %v", err)
	}

	if !strings.Contains(m.View(), "replay #1 saved") {
		t.Error("status bar should report the saved replay")
	}
	for _, want := range []string{"game over", "replay saved"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q:\n%s", want, logs.String())
		}
	}

	// Further ticks on the game over screen must not record again.
	for range 10 {
		m = tick(m)
	}
	if n, _ := store.CountReplays(""); n != 1 {
		t.Errorf("stored %d replays after idle ticks, want 1", n)
	}
}

func TestModelRestartRecordsAgain(t *testing.T) {
	store := openTestStore(t)
	m := hardDropUntilOver(t, newTestModel(t, store, &bytes.Buffer{}))

	m = tick(press(m, runeKey('r')))
	if m.(Model).State().GameOver {
		t.Fatal("restart should start a new game")
	}
	if strings.Contains(m.View(), "saved") {
		t.Error("status should clear on restart")
	}

	hardDropUntilOver(t, m)
	if n, _ := store.CountReplays(tetris.IDMarathon); n != 2 {
		t.Errorf("stored %d replays, want 2", n)
	}
}

func TestModelWithoutStore(t *testing.T) {
	m := hardDropUntilOver(t, newTestModel(t, nil, &bytes.Buffer{}))

	if strings.Contains(m.View(), "replay") {
		t.Error("no replay status expected without a store")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil, &bytes.Buffer{})

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit key should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should quit the program")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, nil, &bytes.Buffer{})

	view := m.View()
	for _, want := range []string{"Blockfall (Marathon)", "NEXT", "HOLD", "hard drop"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != core.DefaultConfig().ScreenH {
		t.Errorf("view is %d lines, want %d", lines, core.DefaultConfig().ScreenH)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, nil, &bytes.Buffer{})
	m = tick(press(m, runeKey(' ')))
	before := m.(Model).game.(*tetris.Game).Engine().Pieces()

	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	if !strings.Contains(m.View(), "Window too small") {
		t.Error("small window should show the size warning")
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := m.(Model).game.(*tetris.Game).Engine().Pieces(); got != before {
		t.Errorf("resize restarted the game: pieces %d -> %d", before, got)
	}
}
