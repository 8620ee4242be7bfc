package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a single recorded command. A game is fully determined by its rules,
// its generator seed and the sequence of ops applied to it.
type Op byte

const (
	OpLeft      Op = 'L'
	OpRight     Op = 'R'
	OpSoftDrop  Op = 'D'
	OpRotateCW  Op = 'C'
	OpRotateCCW Op = 'A'
	OpHardDrop  Op = 'H' // drop and lock
	OpHold      Op = 'S'
	OpTick      Op = 'T'
)

var opNames = map[Op]string{
	OpLeft:      "left",
	OpRight:     "right",
	OpSoftDrop:  "soft-drop",
	OpRotateCW:  "rotate-cw",
	OpRotateCCW: "rotate-ccw",
	OpHardDrop:  "hard-drop",
	OpHold:      "hold",
	OpTick:      "tick",
}

// Valid reports whether op is a known command.
func (op Op) Valid() bool {
	_, ok := opNames[op]
	return ok
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%q)", byte(op))
}

// Apply executes a recorded op against the state.
func (s *State) Apply(op Op) error {
	switch op {
	case OpLeft:
		s.MoveLeft()
	case OpRight:
		s.MoveRight()
	case OpSoftDrop:
		return s.SoftDrop()
	case OpRotateCW:
		s.Rotate(1)
	case OpRotateCCW:
		s.Rotate(-1)
	case OpHardDrop:
		s.HardDrop()
		return s.FinishDrop()
	case OpHold:
		s.Hold()
	case OpTick:
		_, err := s.Tick()
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, byte(op))
	}
	return nil
}

// ApplyAll executes ops in order, stopping at the first error.
func (s *State) ApplyAll(ops []Op) error {
	for i, op := range ops {
		if err := s.Apply(op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

// EncodeJournal run-length encodes ops: runs longer than one are prefixed
// with their count, so "TTTLL" becomes "3T2L".
func EncodeJournal(ops []Op) string {
	var sb strings.Builder
	for i := 0; i < len(ops); {
		j := i
		for j < len(ops) && ops[j] == ops[i] {
			j++
		}
		if n := j - i; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
		sb.WriteByte(byte(ops[i]))
		i = j
	}
	return sb.String()
}

// MaxJournalOps bounds the number of operations a decoded journal may expand
// to. It is far beyond any real game and keeps a short hostile string from
// expanding into gigabytes.
const MaxJournalOps = 1 << 22

// DecodeJournal parses the output of EncodeJournal.
func DecodeJournal(s string) ([]Op, error) {
	var ops []Op
	count := 0
	digits := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			digits = true
			if count > MaxJournalOps {
				return nil, fmt.Errorf("engine: journal: repeat count at offset %d exceeds %d", i, MaxJournalOps)
			}
			continue
		}

		op := Op(c)
		if !op.Valid() {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownOp, c, i)
		}
		n := 1
		if digits {
			if count == 0 {
				return nil, fmt.Errorf("engine: journal: zero repeat count at offset %d", i)
			}
			n = count
		}
		if len(ops)+n > MaxJournalOps {
			return nil, fmt.Errorf("engine: journal: more than %d operations", MaxJournalOps)
		}
		for range n {
			ops = append(ops, op)
		}
		count, digits = 0, false
	}
	if digits {
		return nil, fmt.Errorf("engine: journal: trailing count %d without op", count)
	}
	return ops, nil
}
