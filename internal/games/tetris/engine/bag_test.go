package engine

import (
	"math/rand"
	"testing"
)

func TestBagFairness(t *testing.T) {
	for _, seed := range []int64{1, 42, 2024} {
		bag := NewBag(rand.New(rand.NewSource(seed)))
		for round := range 100 {
			seen := make(map[Kind]int)
			for range 7 {
				seen[bag.Next()]++
			}
			if len(seen) != 7 {
				t.Fatalf("seed %d round %d: got %d distinct kinds, want 7", seed, round, len(seen))
			}
			for k, n := range seen {
				if !k.Valid() || n != 1 {
					t.Fatalf("seed %d round %d: kind %s drawn %d times", seed, round, k, n)
				}
			}
		}
	}
}

func TestBagDeterministic(t *testing.T) {
	a := NewBag(rand.New(rand.NewSource(7)))
	b := NewBag(rand.New(rand.NewSource(7)))
	for i := range 50 {
		if ka, kb := a.Next(), b.Next(); ka != kb {
			t.Fatalf("draw %d: %s vs %s", i, ka, kb)
		}
	}
}

func TestBagRemaining(t *testing.T) {
	bag := NewBag(rand.New(rand.NewSource(3)))
	if bag.Remaining() != 0 {
		t.Fatalf("fresh bag Remaining() = %d, want 0", bag.Remaining())
	}
	bag.Next()
	if bag.Remaining() != 6 {
		t.Errorf("Remaining() = %d, want 6", bag.Remaining())
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence(KindI, KindT)
	want := []Kind{KindI, KindT, KindI, KindT}
	for i, w := range want {
		if got := s.Next(); got != w {
			t.Errorf("draw %d = %s, want %s", i, got, w)
		}
	}

	if got := NewSequence().Next(); got != KindO {
		t.Errorf("empty sequence yields %s, want O", got)
	}
}

func TestSequenceRejectsUnplayableKinds(t *testing.T) {
	for _, k := range []Kind{KindNone, KindGarbage} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewSequence(%s) did not panic", k)
				}
			}()
			NewSequence(KindT, k)
		}()
	}
}
