package engine

// Snapshot is a comparable summary of a game, used to check that two runs
// fed the same inputs end in the same place.
type Snapshot struct {
	Board    string
	Current  Kind
	Rotation int
	X, Y     int
	Next     Kind
	Held     Kind
	HoldUsed bool
	Score    int
	Lines    int
	Level    int
	Pieces   int
	GameOver bool
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Board:    s.board.String(),
		Current:  s.current.Kind(),
		Rotation: ((s.current.Rotation() % 4) + 4) % 4,
		X:        s.x,
		Y:        s.y,
		Next:     s.next,
		Held:     s.held,
		HoldUsed: s.holdUsed,
		Score:    s.score,
		Lines:    s.lines,
		Level:    s.Level(),
		Pieces:   s.pieces,
		GameOver: s.over,
	}
}
