package worker

import (
	"github.com/kargakis/xrep/pkg/bitmap"
	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/params"
)

// ScatterMapWorker clears, for every shingle of the reference stream,
// the bit of every diversified filter it lands on, recording that the
// shingle is present in the reference.
type ScatterMapWorker struct {
	m *bitmap.Map
}

// NewScatterMapWorker returns a ScatterMapWorker writing into m.
func NewScatterMapWorker(m *bitmap.Map) *ScatterMapWorker {
	return &ScatterMapWorker{m: m}
}

// ProcessBatch implements pipeline.MapWorker.
func (w *ScatterMapWorker) ProcessBatch(ctr *container.Container, batchSize int, j0 int) error {
	for j := j0; j < batchSize; j++ {
		com := ctr.Com[j]
		base := j * params.DV
		for id := 0; id < params.DV; id++ {
			w.m.ClearBit(com, ctr.Div[base+id], id)
		}
	}
	return nil
}
