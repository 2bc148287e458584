// Package hashengine computes the rolling common and diversified
// Karp-Rabin fingerprints for every shingle in a batch, stitching
// across batch boundaries via the carry bytes each container's buffer
// already carries (spec.md section 4.1).
package hashengine

import "github.com/kargakis/xrep/pkg/params"

// Engine holds the precomputed rolling-hash constants for a Config so
// they are not recomputed per batch.
type Engine struct {
	cfg  params.Config
	cCom uint64
	cDiv [params.DV]uint64
}

// New precomputes C_COM and C_DIV[id] for cfg.
func New(cfg params.Config) *Engine {
	e := &Engine{cfg: cfg, cCom: cfg.CCom()}
	for id := 0; id < params.DV; id++ {
		e.cDiv[id] = cfg.CDiv(id)
	}
	return e
}

// HashBatch computes the common and diversified fingerprints of every
// shingle buf[j:j+L] for j in [0,n), n being batch_size. buf must hold
// at least n+LC bytes, the leading LC of which are the carry from the
// previous batch (or a zero sentinel for the stream's first batch).
//
// com and div are sized exactly n and n*DV: com[j] and
// div[j*DV+id] are the common and filter-id fingerprints of shingle j.
func (e *Engine) HashBatch(buf []byte, n int, com []uint64, div []byte) {
	l := e.cfg.L
	mCom := e.cfg.MCom
	bCom := e.cfg.BCom
	mDiv := e.cfg.MDiv

	// Diversified hashes: base case over the first L bytes, primed
	// into slot 1 (the pre-roll starting point for the first loop
	// iteration) whenever there is a second shingle to compute.
	for id := 0; id < params.DV; id++ {
		var h uint64
		base := e.cfg.BDiv[id]
		for j := 0; j < l; j++ {
			h = (h*base + uint64(buf[j])) % mDiv
		}
		div[id] = byte(h)
		if n > 1 {
			div[params.DV+id] = byte(h)
		}
	}
	// Roll forward for j = 1..n-1: slot j holds the pre-roll value
	// (shingle j-1's hash) on entry; finalize it to shingle j's hash,
	// and, unless j is the last slot, prime slot j+1 with that value.
	for j := 1; j < n; j++ {
		for id := 0; id < params.DV; id++ {
			base := e.cfg.BDiv[id]
			h := uint64(div[j*params.DV+id])
			h = (256*mDiv + uint64(buf[j-1+l]) + h*base - e.cDiv[id]*uint64(buf[j-1])) % mDiv
			div[j*params.DV+id] = byte(h)
			if j+1 < n {
				div[(j+1)*params.DV+id] = byte(h)
			}
		}
	}

	// Common hash: base case over the first L bytes, then roll
	// forward for j = 1..n-1.
	var h uint64
	for j := 0; j < l; j++ {
		h = (h*bCom + uint64(buf[j])) % mCom
	}
	com[0] = h
	for j := 1; j < n; j++ {
		com[j] = ((com[j-1]+mCom)*bCom - e.cCom*uint64(buf[j-1]) + uint64(buf[j-1+l])) % mCom
	}
}
