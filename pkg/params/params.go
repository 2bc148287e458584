// Package params holds the fixed parameters shared by scatter and
// gather: shingle length, moduli, bases, batch size and the reference
// and test stream lengths. Scatter and gather must agree on every
// field except NS and the file paths.
package params

import "fmt"

// DV is the number of diversified filters. It is fixed at 8 so that
// the per-slot filter mask fits in a single byte.
const DV = 8

// Config is the set of parameters that must match between a scatter
// run and the gather run(s) that consume its map file.
type Config struct {
	// L is the shingle length in bytes.
	L int
	// LP is the minimum reported common-substring length. LP >= L.
	LP int
	// MCom is the common-hash modulus.
	MCom uint64
	// BCom is the common-hash base.
	BCom uint64
	// MDiv is the diversified-hash modulus. Must fit in a byte (<= 255).
	MDiv uint64
	// BDiv holds DV distinct prime bases, each > 256, one per filter.
	BDiv [DV]uint64

	// BatchSize is the number of shingles per container.
	BatchSize int

	// Ns is the reference stream length in bytes.
	Ns uint64
	// NS is the test stream length in bytes. Unused by scatter.
	NS uint64

	MasterPath string
	MapPath    string

	// DemoInjection opts into the demo-string injection described in
	// spec.md section 4.4: a diagnostic feature that overwrites a
	// short span of shuffled input with zeros so a common substring is
	// guaranteed to survive filtering. Off by default so a production
	// run never perturbs its input.
	DemoInjection bool
}

// Default returns the reference parameter set from spec.md section 3.
func Default() Config {
	return Config{
		L:    5,
		LP:   10,
		MCom: 1000000007,
		BCom: 257,
		MDiv: 67,
		BDiv: [DV]uint64{257, 263, 269, 271, 277, 281, 283, 293},

		BatchSize: 8192,
	}
}

// LC returns the carry length L-1.
func (c Config) LC() int {
	return c.L - 1
}

// WithDemoInjection returns a copy of c with DemoInjection set to on,
// for callers that prefer a fluent opt-in over setting the field
// directly.
func (c Config) WithDemoInjection(on bool) Config {
	c.DemoInjection = on
	return c
}

// CCom returns B_COM^L mod M_COM, the rolling-hash subtraction constant.
func (c Config) CCom() uint64 {
	result := uint64(1)
	for i := 0; i < c.L; i++ {
		result = (result * c.BCom) % c.MCom
	}
	return result
}

// CDiv returns B_DIV[id]^L mod M_DIV for the given filter id.
func (c Config) CDiv(id int) uint64 {
	result := uint64(1)
	for i := 0; i < c.L; i++ {
		result = (result * c.BDiv[id]) % c.MDiv
	}
	return result
}

// MapSize is the length in bytes of the bit-sliced map: M_COM + M_DIV.
func (c Config) MapSize() uint64 {
	return c.MCom + c.MDiv
}

// Validate checks the invariants required before either pipeline can
// run. It does not check batch_count >= 3; that depends on which
// stream (ns or NS) is being processed and is checked by the caller.
func (c Config) Validate() error {
	if c.L <= 0 {
		return fmt.Errorf("shingle length L must be positive, got %d", c.L)
	}
	if c.LP < c.L {
		return fmt.Errorf("prefix length LP (%d) must be >= shingle length L (%d)", c.LP, c.L)
	}
	if c.MDiv == 0 || c.MDiv > 255 {
		return fmt.Errorf("diversity modulus M_DIV must be in (0, 255], got %d", c.MDiv)
	}
	if c.MCom == 0 {
		return fmt.Errorf("common modulus M_COM must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	for id, b := range c.BDiv {
		if b <= 256 {
			return fmt.Errorf("diversified base B_DIV[%d] must be > 256, got %d", id, b)
		}
	}
	return nil
}

// BatchCount returns the number of batches needed to read streamLen
// bytes in chunks of BatchSize, and validates that it meets the
// minimum pipeline depth of 3 (spec.md section 4.3).
func (c Config) BatchCount(streamLen uint64) (int, error) {
	batchCount := int(streamLen / uint64(c.BatchSize))
	if streamLen%uint64(c.BatchSize) != 0 {
		batchCount++
	}
	if batchCount < 3 {
		return batchCount, fmt.Errorf("batch count %d < 3 (stream length %d, batch size %d)", batchCount, streamLen, c.BatchSize)
	}
	return batchCount, nil
}

// BatchSizeFor returns the number of bytes to read for batchID (1-based)
// out of batchCount total batches over a stream of streamLen bytes.
func (c Config) BatchSizeFor(batchID, batchCount int, streamLen uint64) int {
	if batchID < batchCount {
		return c.BatchSize
	}
	last := int(streamLen - uint64(c.BatchSize)*uint64(batchCount-1))
	if last <= 0 {
		return c.BatchSize
	}
	return last
}
