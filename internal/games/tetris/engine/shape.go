// Package engine implements the falling-block rules: the seven shapes, pieces,
// the bag randomizer, the board grid and the game state machine that turns
// commands and ticks into state transitions.
//
// The engine is pure and synchronous. It never blocks, never spawns goroutines
// and has no notion of wall-clock time; callers serialize every call into a
// State and schedule Tick themselves using the delay it returns.
package engine

import (
	"strings"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Kind identifies one of the seven piece shapes. The zero value is KindNone,
// which marks empty board cells and an empty hold slot.
type Kind uint8

const (
	KindNone Kind = iota
	KindI
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ

	// KindGarbage fills cells that did not come from a piece.
	KindGarbage
)

// Matrix is a rectangular grid of filled (true) and empty (false) positions,
// row 0 on top.
type Matrix [][]bool

type shape struct {
	name   string
	layout Matrix
	color  core.Color
}

var shapes = [...]shape{
	KindNone: {name: "-"},
	KindI: {
		name: "I",
		layout: parseLayout(
			"....",
			"####",
			"....",
			"....",
		),
		color: core.ColorBrightCyan,
	},
	KindJ: {
		name: "J",
		layout: parseLayout(
			"#..",
			"###",
			"...",
		),
		color: core.ColorBrightBlue,
	},
	KindL: {
		name: "L",
		layout: parseLayout(
			"..#",
			"###",
			"...",
		),
		color: core.ColorOrange,
	},
	KindO: {
		name: "O",
		layout: parseLayout(
			"##",
			"##",
		),
		color: core.ColorBrightYellow,
	},
	KindS: {
		name: "S",
		layout: parseLayout(
			".##",
			"##.",
			"...",
		),
		color: core.ColorBrightGreen,
	},
	KindT: {
		name: "T",
		layout: parseLayout(
			".#.",
			"###",
			"...",
		),
		color: core.ColorBrightMagenta,
	},
	KindZ: {
		name: "Z",
		layout: parseLayout(
			"##.",
			".##",
			"...",
		),
		color: core.ColorBrightRed,
	},
	KindGarbage: {name: "G", color: core.ColorGray},
}

// Kinds returns the seven playable kinds in canonical order.
// The returned slice is freshly allocated.
func Kinds() []Kind {
	return []Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}
}

// ParseKind returns the kind with the given letter name.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(shapes[k].name, name) {
			return k, true
		}
	}
	return KindNone, false
}

// Valid reports whether k is one of the seven playable kinds.
func (k Kind) Valid() bool {
	return k >= KindI && k <= KindZ
}

// String returns the letter name of the kind.
func (k Kind) String() string {
	if int(k) >= len(shapes) {
		return "?"
	}
	return shapes[k].name
}

// Color returns the display color of the kind.
func (k Kind) Color() core.Color {
	if int(k) >= len(shapes) {
		return core.ColorDefault
	}
	return shapes[k].color
}

// Layout returns a copy of the kind's spawn orientation.
func (k Kind) Layout() Matrix {
	if !k.Valid() {
		return Matrix{}
	}
	return shapes[k].layout.Clone()
}

// Rotate returns m rotated 90 degrees clockwise turns times. Turns are taken
// modulo 4, so -1 is a counter-clockwise quarter turn. A zero rotation
// returns m itself; every other result is freshly allocated.
func Rotate(m Matrix, turns int) Matrix {
	turns = ((turns % 4) + 4) % 4
	switch turns {
	case 0:
		return m
	case 1:
		return rotateOnce(m)
	default:
		return Rotate(rotateOnce(m), turns-1)
	}
}

// rotateOnce is a single clockwise quarter turn: transpose, then reverse
// each resulting row.
func rotateOnce(m Matrix) Matrix {
	if len(m) == 0 {
		return Matrix{}
	}

	rows, cols := len(m), len(m[0])
	out := make(Matrix, cols)
	for c := range cols {
		row := make([]bool, rows)
		for r := range rows {
			row[r] = m[r][c]
		}
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
		out[c] = row
	}
	return out
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Equal reports whether both matrices have the same shape and contents.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix with '#' for filled and '.' for empty cells.
func (m Matrix) String() string {
	lines := make([]string, len(m))
	for i, row := range m {
		var sb strings.Builder
		for _, filled := range row {
			if filled {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func parseLayout(rows ...string) Matrix {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]bool, len(row))
		for j := range len(row) {
			m[i][j] = row[j] == '#'
		}
	}
	return m
}
