package engine

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Point is a column/row offset.
type Point struct {
	X, Y int
}

// Piece is a kind plus a rotation counter. Everything else about it
// (the rotated matrix and its extents) is derived on demand.
type Piece struct {
	kind     Kind
	rotation int
}

// NewPiece returns a piece of the given kind in spawn orientation.
func NewPiece(k Kind) Piece {
	return Piece{kind: k}
}

// Kind returns the piece's shape kind.
func (p Piece) Kind() Kind {
	return p.kind
}

// Rotation returns the raw rotation counter. It is not truncated;
// Matrix applies the modulo.
func (p Piece) Rotation() int {
	return p.rotation
}

// Rotate adds offset quarter turns (positive is clockwise).
func (p *Piece) Rotate(offset int) {
	p.rotation += offset
}

// Color returns the display color of the piece.
func (p Piece) Color() core.Color {
	return p.kind.Color()
}

// Matrix returns the rotated layout of the piece.
func (p Piece) Matrix() Matrix {
	return Rotate(p.kind.Layout(), p.rotation)
}

// Cells returns the offsets of every filled position in the rotated matrix,
// row by row.
func (p Piece) Cells() []Point {
	var cells []Point
	for y, row := range p.Matrix() {
		for x, filled := range row {
			if filled {
				cells = append(cells, Point{X: x, Y: y})
			}
		}
	}
	return cells
}

// RestingHeight returns the index of the lowest matrix row that has a filled
// cell, or -1 for an empty matrix.
func (p Piece) RestingHeight() int {
	m := p.Matrix()
	for y := len(m) - 1; y >= 0; y-- {
		for _, filled := range m[y] {
			if filled {
				return y
			}
		}
	}
	return -1
}

// LeftMost returns the leftmost filled column of the rotated matrix,
// or -1 for an empty matrix.
func (p Piece) LeftMost() int {
	left := -1
	for _, row := range p.Matrix() {
		for x, filled := range row {
			if filled && (left < 0 || x < left) {
				left = x
			}
		}
	}
	return left
}

// RightMost returns the rightmost filled column of the rotated matrix,
// or -1 for an empty matrix.
func (p Piece) RightMost() int {
	right := -1
	for _, row := range p.Matrix() {
		for x, filled := range row {
			if filled && x > right {
				right = x
			}
		}
	}
	return right
}

func (p Piece) String() string {
	return fmt.Sprintf("%s/%d", p.kind, ((p.rotation%4)+4)%4)
}
