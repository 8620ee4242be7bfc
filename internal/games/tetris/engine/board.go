package engine

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Canonical playfield size.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Cell is one board position. It is empty when Kind is KindNone; otherwise
// it remembers which kind locked there and its color.
type Cell struct {
	Kind  Kind
	Color core.Color
}

// Empty reports whether the cell is unoccupied.
func (c Cell) Empty() bool {
	return c.Kind == KindNone
}

// Board is a fixed-size grid of cells addressed with row 0 at the top.
// Every row is an independently allocated slice of exactly width cells.
type Board struct {
	width  int
	height int
	rows   [][]Cell
}

// NewBoard creates an empty board.
func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height}
	b.rows = make([][]Cell, height)
	for y := range b.rows {
		b.rows[y] = b.newRow()
	}
	return b
}

func (b *Board) newRow() []Cell {
	return make([]Cell, b.width)
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Fits reports whether every filled cell of p, offset by (dx, dy), lands
// inside the grid on an empty cell. It is the single collision predicate
// used for movement, rotation and drop distance.
func (b *Board) Fits(p Piece, dx, dy int) bool {
	for y, row := range p.Matrix() {
		for x, filled := range row {
			if !filled {
				continue
			}
			bx, by := x+dx, y+dy
			if !b.inBounds(bx, by) || !b.rows[by][bx].Empty() {
				return false
			}
		}
	}
	return true
}

// Place copies the filled cells of p into the board at (dx, dy).
// It fails with ErrInvalidPlacement, leaving the board untouched,
// when Fits is false for the same arguments.
func (b *Board) Place(p Piece, dx, dy int) error {
	if !b.Fits(p, dx, dy) {
		return fmt.Errorf("%w: %s at (%d, %d)", ErrInvalidPlacement, p, dx, dy)
	}

	cell := Cell{Kind: p.Kind(), Color: p.Color()}
	for _, c := range p.Cells() {
		b.rows[c.Y+dy][c.X+dx] = cell
	}
	return nil
}

// ClearFullLines removes every fully occupied row and inserts a fresh empty
// row at the top for each one. Remaining rows keep their relative order.
// Returns the number of rows removed.
func (b *Board) ClearFullLines() int {
	kept := make([][]Cell, 0, b.height)
	for y := range b.height {
		if !b.rowFull(y) {
			kept = append(kept, b.rows[y])
		}
	}

	cleared := b.height - len(kept)
	if cleared == 0 {
		return 0
	}

	rows := make([][]Cell, 0, b.height)
	for range cleared {
		rows = append(rows, b.newRow())
	}
	b.rows = append(rows, kept...)
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for _, c := range b.rows[y] {
		if c.Empty() {
			return false
		}
	}
	return true
}

// Cell returns the cell at (x, y).
func (b *Board) Cell(x, y int) (Cell, error) {
	if !b.inBounds(x, y) {
		return Cell{}, fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return b.rows[y][x], nil
}

// Set overwrites a single cell. Used to build scenarios; gameplay only ever
// writes through Place.
func (b *Board) Set(x, y int, c Cell) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfBounds, x, y, b.width, b.height)
	}
	b.rows[y][x] = c
	return nil
}

// Fill occupies row y with neutral garbage cells, leaving the listed
// columns empty.
func (b *Board) Fill(y int, except ...int) error {
	if y < 0 || y >= b.height {
		return fmt.Errorf("%w: row %d on %dx%d board", ErrOutOfBounds, y, b.width, b.height)
	}

	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := range b.width {
		if skip[x] {
			b.rows[y][x] = Cell{}
			continue
		}
		b.rows[y][x] = Cell{Kind: KindGarbage, Color: KindGarbage.Color()}
	}
	return nil
}

// Rows returns a deep copy of the grid for read-only consumers.
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, b.height)
	for y, row := range b.rows {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// StackHeight returns the number of rows from the topmost occupied row to
// the floor, 0 for an empty board.
func (b *Board) StackHeight() int {
	for y := range b.height {
		for _, c := range b.rows[y] {
			if !c.Empty() {
				return b.height - y
			}
		}
	}
	return 0
}

// String renders the grid one line per row, '.' for empty cells and the
// kind letter otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	for y, row := range b.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			if c.Empty() {
				sb.WriteByte('.')
			} else {
				sb.WriteString(c.Kind.String())
			}
		}
	}
	return sb.String()
}
