package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestState(t *testing.T, kinds ...Kind) *State {
	t.Helper()
	s, err := New(DefaultConfig(), NewSequence(kinds...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewSpawn(t *testing.T) {
	s := newTestState(t, KindT, KindO, KindI)

	if s.Current().Kind() != KindT {
		t.Errorf("current = %s, want T", s.Current().Kind())
	}
	if s.Next() != KindO {
		t.Errorf("next = %s, want O", s.Next())
	}
	if _, ok := s.Held(); ok {
		t.Error("fresh game has a held piece")
	}
	if x, y := s.Position(); x != 3 || y != 0 {
		t.Errorf("spawn position = (%d, %d), want (3, 0)", x, y)
	}
	if s.Pieces() != 1 || s.Score() != 0 || s.Level() != 0 || s.GameOver() {
		t.Errorf("unexpected fresh state: %+v", s.Snapshot())
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny board", func(c *Config) { c.Width = 3 }},
		{"short score table", func(c *Config) { c.LineScores = []int{0, 1} }},
		{"negative score", func(c *Config) { c.LineScores[2] = -5 }},
		{"no gravity", func(c *Config) { c.Gravity = nil }},
		{"zero gravity", func(c *Config) { c.Gravity[3] = 0 }},
		{"no kicks", func(c *Config) { c.Kicks = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, NewSequence()); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestHardDropO(t *testing.T) {
	s := newTestState(t, KindO)

	s.HardDrop()
	if _, y := s.Position(); y != 18 {
		t.Fatalf("hard drop y = %d, want 18", y)
	}
	if err := s.FinishDrop(); err != nil {
		t.Fatalf("FinishDrop: %v", err)
	}

	for y := range DefaultHeight {
		for x := range DefaultWidth {
			c, err := s.Board().Cell(x, y)
			if err != nil {
				t.Fatal(err)
			}
			want := (y == 18 || y == 19) && (x == 4 || x == 5)
			if c.Empty() == want {
				t.Errorf("cell (%d, %d) occupied = %v, want %v", x, y, !c.Empty(), want)
			}
		}
	}
	if s.LastCleared() != 0 || s.Score() != 0 {
		t.Errorf("cleared = %d score = %d, want 0 and 0", s.LastCleared(), s.Score())
	}
	if s.Pieces() != 2 {
		t.Errorf("pieces = %d, want 2", s.Pieces())
	}
}

// moveToLeftWall slides the active piece left until it is blocked.
func moveToLeftWall(s *State) {
	for range DefaultWidth {
		s.MoveLeft()
	}
}

func TestSingleLineClear(t *testing.T) {
	s := newTestState(t, KindI, KindO)
	if err := s.Board().Fill(19, 0); err != nil {
		t.Fatal(err)
	}

	s.Rotate(1)
	moveToLeftWall(s)
	if x, _ := s.Position(); x+s.Current().LeftMost() != 0 {
		t.Fatalf("vertical I not at the wall: x = %d", x)
	}

	s.HardDrop()
	if _, y := s.Position(); y != 16 {
		t.Fatalf("resting y = %d, want 16", y)
	}
	if err := s.FinishDrop(); err != nil {
		t.Fatal(err)
	}

	if s.LastCleared() != 1 || s.Lines() != 1 {
		t.Errorf("cleared = %d lines = %d, want 1 and 1", s.LastCleared(), s.Lines())
	}
	if s.Score() != 100 {
		t.Errorf("score = %d, want 100", s.Score())
	}

	rows := s.Board().Rows()
	for x, c := range rows[0] {
		if !c.Empty() {
			t.Errorf("row 0 col %d not empty after clear", x)
		}
	}
	for y := 17; y < 20; y++ {
		for x, c := range rows[y] {
			if want := x == 0; c.Empty() == want {
				t.Errorf("cell (%d, %d) occupied = %v, want %v", x, y, !c.Empty(), want)
			}
		}
	}
}

func TestScoreUsesLevelBeforeClear(t *testing.T) {
	s := newTestState(t, KindI, KindO)
	s.lines = 9
	if err := s.Board().Fill(19, 0); err != nil {
		t.Fatal(err)
	}

	s.Rotate(1)
	moveToLeftWall(s)
	if err := s.Apply(OpHardDrop); err != nil {
		t.Fatal(err)
	}

	if s.Score() != 100 {
		t.Errorf("score = %d, want 100 (level 0 multiplier)", s.Score())
	}
	if s.Level() != 1 {
		t.Errorf("level = %d, want 1", s.Level())
	}
}

func TestTetrisScore(t *testing.T) {
	s := newTestState(t, KindI, KindO)
	for y := 16; y < 20; y++ {
		if err := s.Board().Fill(y, 9); err != nil {
			t.Fatal(err)
		}
	}

	s.Rotate(1)
	for range DefaultWidth {
		s.MoveRight()
	}
	if err := s.Apply(OpHardDrop); err != nil {
		t.Fatal(err)
	}

	if s.LastCleared() != 4 || s.Score() != 800 {
		t.Errorf("cleared = %d score = %d, want 4 and 800", s.LastCleared(), s.Score())
	}
	if h := s.Board().StackHeight(); h != 0 {
		t.Errorf("stack height = %d after clearing everything", h)
	}
}

func TestRotateConstrainLeftWall(t *testing.T) {
	s := newTestState(t, KindI)

	s.Rotate(1)
	moveToLeftWall(s)
	if x, _ := s.Position(); x != -2 {
		t.Fatalf("vertical I at wall: x = %d, want -2", x)
	}

	// Horizontal again: the naive position would put cells at columns -2..1.
	s.Rotate(1)
	x, _ := s.Position()
	if x+s.Current().LeftMost() != 0 {
		t.Errorf("after rotate: x = %d leftmost = %d, want flush with column 0", x, s.Current().LeftMost())
	}
	if !s.Board().Fits(s.Current(), x, 0) {
		t.Error("constrained piece does not fit")
	}
}

func TestRotateConstrainRightWall(t *testing.T) {
	s := newTestState(t, KindI)

	s.Rotate(-1)
	for range DefaultWidth {
		s.MoveRight()
	}
	s.Rotate(-1)

	x, _ := s.Position()
	if x+s.Current().RightMost() != DefaultWidth-1 {
		t.Errorf("after rotate: x = %d rightmost = %d, want flush with column 9", x, s.Current().RightMost())
	}
}

func TestRotateKick(t *testing.T) {
	s := newTestState(t, KindT)
	// Block the column the rotated T would occupy at its spawn x.
	if err := s.Board().Set(4, 2, Cell{Kind: KindGarbage}); err != nil {
		t.Fatal(err)
	}

	s.Rotate(1)
	if s.Current().Rotation() != 1 {
		t.Fatalf("rotation = %d, want kicked rotation to succeed", s.Current().Rotation())
	}
	if x, _ := s.Position(); x != 4 {
		t.Errorf("kicked x = %d, want 4", x)
	}
}

func TestRotateRevert(t *testing.T) {
	s := newTestState(t, KindI)
	// Horizontal I in row 1; every vertical placement nearby is blocked.
	for x := range DefaultWidth {
		if err := s.Board().Set(x, 3, Cell{Kind: KindGarbage}); err != nil {
			t.Fatal(err)
		}
	}

	before := s.Snapshot()
	s.Rotate(1)
	if after := s.Snapshot(); after != before {
		t.Errorf("failed rotation changed state:\n%+v\nwant:\n%+v", after, before)
	}
}

func TestMoveBlocked(t *testing.T) {
	s := newTestState(t, KindO)
	if err := s.Board().Set(3, 0, Cell{Kind: KindGarbage}); err != nil {
		t.Fatal(err)
	}

	s.MoveLeft()
	if x, _ := s.Position(); x != 4 {
		t.Errorf("x = %d after blocked move, want 4", x)
	}
	s.MoveRight()
	if x, _ := s.Position(); x != 5 {
		t.Errorf("x = %d after free move, want 5", x)
	}

	for range DefaultWidth {
		s.MoveRight()
	}
	if x, _ := s.Position(); x != DefaultWidth-2 {
		t.Errorf("x = %d at right wall, want %d", x, DefaultWidth-2)
	}
}

func TestSoftDropLocksAtRest(t *testing.T) {
	s := newTestState(t, KindO, KindT)

	for i := range 17 {
		if err := s.SoftDrop(); err != nil {
			t.Fatal(err)
		}
		if _, y := s.Position(); y != i+1 {
			t.Fatalf("after %d soft drops y = %d", i+1, y)
		}
	}
	if s.Pieces() != 1 {
		t.Fatalf("locked early: pieces = %d", s.Pieces())
	}

	if err := s.SoftDrop(); err != nil {
		t.Fatal(err)
	}
	if s.Pieces() != 2 || s.Current().Kind() != KindT {
		t.Errorf("expected lock on reaching rest, got %+v", s.Snapshot())
	}
	if c, _ := s.Board().Cell(4, 18); c.Kind != KindO {
		t.Error("O not locked at rows 18-19")
	}
}

func TestTickDelay(t *testing.T) {
	s := newTestState(t, KindO)

	delay, err := s.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if delay != 48 {
		t.Errorf("level 0 delay = %d, want 48", delay)
	}
	if _, y := s.Position(); y != 1 {
		t.Errorf("tick did not apply gravity: y = %d", y)
	}

	tests := []struct {
		lines int
		want  int
	}{
		{0, 48},
		{10, 43},
		{95, 6},
		{290, 1},
		{1000, 1},
	}
	for _, tt := range tests {
		s.lines = tt.lines
		if got := s.Delay(); got != tt.want {
			t.Errorf("Delay() at %d lines = %d, want %d", tt.lines, got, tt.want)
		}
	}
}

func TestDelayClampsToLastEntry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = []int{20, 12, 7}
	s, err := New(cfg, NewSequence(KindO))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		lines int
		want  int
	}{
		{0, 20},
		{15, 12},
		{20, 7},
		{30, 7},
		{5000, 7},
	}
	for _, tt := range tests {
		s.lines = tt.lines
		if got := s.Delay(); got != tt.want {
			t.Errorf("Delay() at level %d = %d, want %d", s.Level(), got, tt.want)
		}
	}
}

type badGenerator struct{}

func (badGenerator) Next() Kind { return KindGarbage }

func TestNewRejectsBadGenerator(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(nil generator) error = %v, want ErrInvalidConfig", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("New() with a generator yielding garbage did not panic")
		}
	}()
	New(DefaultConfig(), badGenerator{})
}

func TestHoldExclusivity(t *testing.T) {
	s := newTestState(t, KindI, KindO, KindT, KindS)

	s.MoveLeft()
	s.Rotate(1)
	s.Hold()
	if k, ok := s.Held(); !ok || k != KindI {
		t.Fatalf("held = %s, %v, want I", k, ok)
	}
	if s.Current().Kind() != KindO || s.Next() != KindT {
		t.Fatalf("current = %s next = %s, want O and T", s.Current().Kind(), s.Next())
	}
	if x, y := s.Position(); x != 4 || y != 0 || s.Current().Rotation() != 0 {
		t.Errorf("held swap did not reset spawn: (%d, %d) rot %d", x, y, s.Current().Rotation())
	}

	first := s.Snapshot()
	s.Hold()
	if second := s.Snapshot(); second != first {
		t.Errorf("second hold changed state:\n%+v\nwant:\n%+v", second, first)
	}

	if err := s.Apply(OpHardDrop); err != nil {
		t.Fatal(err)
	}
	if s.HoldUsed() {
		t.Error("lock did not clear hold flag")
	}

	s.Hold()
	if k, _ := s.Held(); k != KindT {
		t.Errorf("held = %s, want T", k)
	}
	if s.Current().Kind() != KindI {
		t.Errorf("current = %s, want swapped-in I", s.Current().Kind())
	}
	if s.Next() != KindS {
		t.Errorf("swap drew from the generator: next = %s", s.Next())
	}
}

func TestTopOut(t *testing.T) {
	s := newTestState(t, KindO)

	for i := range 10 {
		if s.GameOver() {
			t.Fatalf("game over after %d pieces", i)
		}
		if err := s.Apply(OpHardDrop); err != nil {
			t.Fatal(err)
		}
	}
	if !s.GameOver() {
		t.Fatal("stack reached the ceiling without game over")
	}

	before := s.Snapshot()
	for _, op := range []Op{OpLeft, OpRight, OpRotateCW, OpSoftDrop, OpHardDrop, OpHold, OpTick} {
		if err := s.Apply(op); err != nil {
			t.Errorf("%s after game over: %v", op, err)
		}
	}
	if after := s.Snapshot(); after != before {
		t.Error("commands after game over changed state")
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	ops := []Op{OpLeft, OpRight, OpSoftDrop, OpRotateCW, OpRotateCCW, OpHardDrop, OpHold, OpTick, OpTick, OpTick}

	for _, seed := range []int64{1, 2, 3, 99} {
		rng := rand.New(rand.NewSource(seed))
		s, err := New(DefaultConfig(), NewBag(rand.New(rand.NewSource(seed))))
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 5000 && !s.GameOver(); i++ {
			score := s.Score()
			pieces := s.Pieces()

			if err := s.Apply(ops[rng.Intn(len(ops))]); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, i, err)
			}

			if s.Score() < score {
				t.Fatalf("seed %d step %d: score decreased %d -> %d", seed, i, score, s.Score())
			}
			if s.Pieces() > pieces && s.LastCleared() == 0 && s.Score() != score {
				t.Fatalf("seed %d step %d: lock without clears changed score", seed, i)
			}
			if s.GameOver() {
				break
			}
			x, y := s.Position()
			if !s.Board().Fits(s.Current(), x, y) {
				t.Fatalf("seed %d step %d: active piece overlaps at (%d, %d)\n%s", seed, i, x, y, s.Board())
			}
			if r := s.RestingY(); r < y {
				t.Fatalf("seed %d step %d: resting row %d above piece row %d", seed, i, r, y)
			}
			if s.Level() != s.Lines()/LinesPerLevel {
				t.Fatalf("seed %d step %d: level %d for %d lines", seed, i, s.Level(), s.Lines())
			}
		}
	}
}
