package engine

import (
	"fmt"
)

// LinesPerLevel is the number of cleared lines per level step.
const LinesPerLevel = 10

// Config holds the tunable rules of a game.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// LineScores maps a clear count (index 0-4) to base points,
	// multiplied by level+1.
	LineScores []int `yaml:"line_scores"`

	// Gravity is the delay in ticks between gravity steps, indexed by level.
	// Levels past the end of the table keep the last entry.
	Gravity []int `yaml:"gravity"`

	// Kicks are the net horizontal offsets tried, in order, after a rotation
	// has been constrained to the walls.
	Kicks []int `yaml:"kicks"`
}

// DefaultConfig returns the standard 10x20 rules.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		LineScores: []int{0, 100, 300, 500, 800},
		Gravity: []int{
			48, 43, 38, 33, 28, 23, 18, 13, 8, 6,
			5, 5, 5, 4, 4, 4, 3, 3, 3, 2,
			2, 2, 2, 2, 2, 2, 2, 2, 2, 1,
		},
		Kicks: []int{0, 1, -1},
	}
}

// Validate checks that the rules describe a playable game.
func (c Config) Validate() error {
	switch {
	case c.Width < 4 || c.Height < 4:
		return fmt.Errorf("%w: board %dx%d is smaller than 4x4", ErrInvalidConfig, c.Width, c.Height)
	case len(c.LineScores) < 5:
		return fmt.Errorf("%w: line_scores needs 5 entries, got %d", ErrInvalidConfig, len(c.LineScores))
	case len(c.Gravity) == 0:
		return fmt.Errorf("%w: gravity table is empty", ErrInvalidConfig)
	case len(c.Kicks) == 0:
		return fmt.Errorf("%w: kicks table is empty", ErrInvalidConfig)
	}
	for i, d := range c.Gravity {
		if d < 1 {
			return fmt.Errorf("%w: gravity[%d] = %d, must be at least 1", ErrInvalidConfig, i, d)
		}
	}
	for i, s := range c.LineScores {
		if s < 0 {
			return fmt.Errorf("%w: line_scores[%d] = %d is negative", ErrInvalidConfig, i, s)
		}
	}
	return nil
}

// State is the authoritative game state. It is not safe for concurrent use;
// the caller serializes inputs and ticks.
type State struct {
	cfg   Config
	board *Board
	gen   Generator

	current Piece
	x, y    int
	next    Kind
	held    Kind

	holdUsed    bool
	score       int
	lines       int
	pieces      int
	lastCleared int
	over        bool
}

// New starts a game with the given rules and piece source.
func New(cfg Config, gen Generator) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generator", ErrInvalidConfig)
	}

	s := &State{
		cfg:   cfg,
		board: NewBoard(cfg.Width, cfg.Height),
		gen:   gen,
	}
	s.current = NewPiece(s.draw())
	s.next = s.draw()
	s.spawn()
	return s, nil
}

// draw takes the next kind from the generator. A generator that breaks its
// contract is a programming error.
func (s *State) draw() Kind {
	k := s.gen.Next()
	if !k.Valid() {
		panic(fmt.Sprintf("engine: generator returned invalid kind %v", k))
	}
	return k
}

// spawn puts the current piece at the spawn column and row in its initial
// orientation. If it does not fit there, the game is over.
func (s *State) spawn() {
	s.current = NewPiece(s.current.Kind())
	s.x = (s.board.Width() - len(s.current.Matrix()[0])) / 2
	s.y = 0
	s.pieces++
	if !s.board.Fits(s.current, s.x, s.y) {
		s.over = true
	}
}

// constrain nudges x so the filled footprint of the current piece stays
// inside the side walls.
func (s *State) constrain() {
	if left := s.x + s.current.LeftMost(); left < 0 {
		s.x -= left
	}
	if right := s.x + s.current.RightMost(); right >= s.board.Width() {
		s.x -= right - (s.board.Width() - 1)
	}
}

// MoveLeft shifts the active piece one column left; a blocked move has no effect.
func (s *State) MoveLeft() {
	s.shift(-1)
}

// MoveRight shifts the active piece one column right; a blocked move has no effect.
func (s *State) MoveRight() {
	s.shift(1)
}

func (s *State) shift(dx int) {
	if s.over {
		return
	}
	s.x += dx
	if !s.board.Fits(s.current, s.x, s.y) {
		s.x -= dx
		return
	}
	s.constrain()
}

// Rotate turns the active piece by offset quarter turns (positive is
// clockwise). After constraining to the walls each kick offset is tried in
// order; if none fits the rotation and position are fully reverted.
func (s *State) Rotate(offset int) {
	if s.over {
		return
	}

	origX := s.x
	s.current.Rotate(offset)
	s.constrain()

	base := s.x
	for _, kick := range s.cfg.Kicks {
		if s.board.Fits(s.current, base+kick, s.y) {
			s.x = base + kick
			return
		}
	}

	s.current.Rotate(-offset)
	s.x = origX
}

// RestingY returns the row the active piece would lock at if dropped now:
// probing downward from the current row, one above the first row that
// does not fit. It is also the ghost row.
func (s *State) RestingY() int {
	y := s.y
	for s.board.Fits(s.current, s.x, y) {
		y++
	}
	return y - 1
}

// SoftDrop moves the active piece down one row. Once the piece is at or past
// its resting row it locks immediately instead of waiting for the next Tick,
// so there is no lock delay: a piece that has landed is never left active.
func (s *State) SoftDrop() error {
	if s.over {
		return nil
	}
	s.y++
	if s.y >= s.RestingY() {
		return s.FinishDrop()
	}
	return nil
}

// HardDrop moves the active piece straight to its resting row without
// locking it.
func (s *State) HardDrop() {
	if s.over {
		return
	}
	s.y = s.RestingY()
}

// Hold stashes the active piece. Allowed once per spawn: the first hold of a
// game promotes the next piece, later holds swap with the held one. The new
// active piece restarts at the spawn position in spawn orientation.
func (s *State) Hold() {
	if s.over || s.holdUsed {
		return
	}

	stashed := s.current.Kind()
	if s.held == KindNone {
		s.current = NewPiece(s.next)
		s.next = s.draw()
	} else {
		s.current = NewPiece(s.held)
	}
	s.held = stashed
	s.holdUsed = true
	s.pieces--
	s.spawn()
}

// FinishDrop locks the active piece at its resting row, spawns the next one,
// clears full lines and scores them at the level in effect before the clear.
func (s *State) FinishDrop() error {
	if s.over {
		return nil
	}

	restY := s.RestingY()
	if err := s.board.Place(s.current, s.x, restY); err != nil {
		return fmt.Errorf("finish drop: %w", err)
	}

	level := s.Level()
	s.current = NewPiece(s.next)
	s.next = s.draw()
	s.holdUsed = false

	cleared := s.board.ClearFullLines()
	s.score += s.lineScore(cleared) * (level + 1)
	s.lines += cleared
	s.lastCleared = cleared

	s.spawn()
	return nil
}

func (s *State) lineScore(cleared int) int {
	if cleared >= len(s.cfg.LineScores) {
		return s.cfg.LineScores[len(s.cfg.LineScores)-1]
	}
	return s.cfg.LineScores[cleared]
}

// Tick advances time by one gravity step and returns how many ticks the
// caller should wait before the next one.
func (s *State) Tick() (int, error) {
	if err := s.SoftDrop(); err != nil {
		return 0, err
	}
	return s.Delay(), nil
}

// Delay returns the gravity delay for the current level, clamped to the last
// entry of the gravity table.
func (s *State) Delay() int {
	return s.cfg.Gravity[min(s.Level(), len(s.cfg.Gravity)-1)]
}

// Level is derived from cleared lines; it is never stored.
func (s *State) Level() int {
	return s.lines / LinesPerLevel
}

// Score returns the cumulative score.
func (s *State) Score() int {
	return s.score
}

// Lines returns the cumulative number of cleared lines.
func (s *State) Lines() int {
	return s.lines
}

// LastCleared returns how many lines the most recent lock cleared.
func (s *State) LastCleared() int {
	return s.lastCleared
}

// Pieces returns how many pieces have spawned, not counting hold swaps.
func (s *State) Pieces() int {
	return s.pieces
}

// Current returns the active piece.
func (s *State) Current() Piece {
	return s.current
}

// Position returns the board origin of the active piece's matrix.
func (s *State) Position() (x, y int) {
	return s.x, s.y
}

// Next returns the queued kind.
func (s *State) Next() Kind {
	return s.next
}

// Held returns the stashed kind, if any.
func (s *State) Held() (Kind, bool) {
	return s.held, s.held != KindNone
}

// HoldUsed reports whether hold was already used since the last lock.
func (s *State) HoldUsed() bool {
	return s.holdUsed
}

// GameOver reports whether the last spawned piece could not be placed.
func (s *State) GameOver() bool {
	return s.over
}

// Board exposes the grid for scenario setup and read-only queries.
// Gameplay code must not write to it directly.
func (s *State) Board() *Board {
	return s.board
}

// Config returns the rules the game was created with.
func (s *State) Config() Config {
	return s.cfg
}
