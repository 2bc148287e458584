// Package shuffle generates the fixed byte-permutation table applied
// to every input byte before hashing. It is a deterministic function
// of a seed so scatter and gather, given the same seed, decorrelate
// their input identically.
package shuffle

import (
	"fmt"
	"math/rand"
)

// Table is a bijection of [0,256).
type Table [256]byte

// Generate draws a random permutation from seed, the way
// scatter's rcp_generator does: for each of the 256 slots, draw a
// uniform byte and, if it is already assigned, linearly probe forward
// (wrapping) until an unassigned value is found.
func Generate(seed int64) (Table, error) {
	rng := rand.New(rand.NewSource(seed))

	var t Table
	var assigned [256]bool
	for slot := 0; slot < 256; slot++ {
		candidate := byte(rng.Intn(256))
		for assigned[candidate] {
			candidate++
		}
		assigned[candidate] = true
		t[slot] = candidate
	}

	if err := t.verify(); err != nil {
		return t, err
	}
	return t, nil
}

// verify checks that t is a bijection, matching spec.md's P4 invariant.
func (t Table) verify() error {
	var seen [256]bool
	for _, v := range t {
		if seen[v] {
			return fmt.Errorf("byte-shuffle is not a bijection: %d assigned twice", v)
		}
		seen[v] = true
	}
	return nil
}

// Apply shuffles each byte of buf in place.
func (t Table) Apply(buf []byte) {
	for i, b := range buf {
		buf[i] = t[b]
	}
}
