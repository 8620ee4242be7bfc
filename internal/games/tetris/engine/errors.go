package engine

import "errors"

// Both placement and query errors signal a logic defect in the caller, not a
// player mistake. Illegal moves never surface as errors; they are rolled back.
var (
	// ErrInvalidPlacement is returned when a piece is committed to cells that
	// are occupied or outside the board.
	ErrInvalidPlacement = errors.New("engine: invalid placement")

	// ErrOutOfBounds is returned when a query addresses a cell outside the grid.
	ErrOutOfBounds = errors.New("engine: cell out of bounds")

	// ErrUnknownOp is returned when a journal contains an unrecognized command.
	ErrUnknownOp = errors.New("engine: unknown op")

	// ErrInvalidConfig is returned by New and Config.Validate.
	ErrInvalidConfig = errors.New("engine: invalid config")
)
