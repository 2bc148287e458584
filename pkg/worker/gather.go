package worker

import (
	"github.com/kargakis/xrep/pkg/bitmap"
	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/params"
)

// GatherMapWorker probes the map for every shingle of the test stream
// and tracks runs of consecutive hits: a run longer than LP-L shingles
// is long enough to plausibly back a common substring of length LP,
// and every shingle position past that threshold is recorded as
// residue.
type GatherMapWorker struct {
	m         *bitmap.Map
	threshold int

	pos      uint64
	count    int
	maxCount int
	residue  []uint64
}

// NewGatherMapWorker returns a GatherMapWorker probing m under cfg.
func NewGatherMapWorker(m *bitmap.Map, cfg params.Config) *GatherMapWorker {
	return &GatherMapWorker{m: m, threshold: cfg.LP - cfg.L}
}

// ProcessBatch implements pipeline.MapWorker.
func (w *GatherMapWorker) ProcessBatch(ctr *container.Container, batchSize int, j0 int) error {
	for j := j0; j < batchSize; j++ {
		com := ctr.Com[j]
		base := j * params.DV
		hit := w.m.CheckHash(com, ctr.Div[base:base+params.DV]) == 0

		if hit {
			w.count++
			if w.count > w.threshold {
				w.residue = append(w.residue, w.pos)
			}
			if w.count > w.maxCount {
				w.maxCount = w.count
			}
		} else {
			w.count = 0
		}
		w.pos++
	}
	return nil
}

// Residue returns the shingle positions, in the test stream, that
// fell in a hit run longer than LP-L.
func (w *GatherMapWorker) Residue() []uint64 {
	return w.residue
}

// MaxCount returns the longest hit run observed.
func (w *GatherMapWorker) MaxCount() int {
	return w.maxCount
}
