package engine

import (
	"fmt"
	"math/rand"
)

// Generator supplies the sequence of piece kinds a game spawns. Next must
// only return playable kinds, those for which Kind.Valid reports true.
type Generator interface {
	Next() Kind
}

// Bag is the 7-bag randomizer: every consecutive group of seven draws,
// starting at a bag boundary, is a permutation of all seven kinds.
// The sequence is infinite and is consumed one kind per call.
type Bag struct {
	rng   *rand.Rand
	queue []Kind
}

// NewBag creates a bag generator. The same rng seed always produces the
// same sequence, which replays depend on.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{rng: rng}
}

// Next returns the next kind, reshuffling a fresh bag when the current one
// is exhausted.
func (b *Bag) Next() Kind {
	if len(b.queue) == 0 {
		b.refill()
	}
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}

// Remaining returns how many kinds are left in the current bag.
func (b *Bag) Remaining() int {
	return len(b.queue)
}

func (b *Bag) refill() {
	b.queue = Kinds()
	b.rng.Shuffle(len(b.queue), func(i, j int) {
		b.queue[i], b.queue[j] = b.queue[j], b.queue[i]
	})
}

// Sequence is a Generator that cycles through a fixed list of kinds.
// Used for scripted scenarios and tests.
type Sequence struct {
	kinds []Kind
	pos   int
}

// NewSequence creates a cycling generator. An empty list yields KindO forever.
// It panics if a kind is not playable.
func NewSequence(kinds ...Kind) *Sequence {
	if len(kinds) == 0 {
		kinds = []Kind{KindO}
	}
	for _, k := range kinds {
		if !k.Valid() {
			panic(fmt.Sprintf("engine: sequence kind %v is not playable", k))
		}
	}
	return &Sequence{kinds: append([]Kind(nil), kinds...)}
}

// Next returns the next kind in the cycle.
func (s *Sequence) Next() Kind {
	k := s.kinds[s.pos]
	s.pos = (s.pos + 1) % len(s.kinds)
	return k
}
