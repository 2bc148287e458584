package worker

import (
	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/hashengine"
)

// Hasher computes the common and diversified fingerprints for every
// shingle the reader just placed into a container.
type Hasher struct {
	eng *hashengine.Engine
}

// NewHasher returns a Hasher backed by eng.
func NewHasher(eng *hashengine.Engine) *Hasher {
	return &Hasher{eng: eng}
}

// HashBatch implements pipeline.Hasher.
func (h *Hasher) HashBatch(ctr *container.Container, batchSize int) {
	h.eng.HashBatch(ctr.Buf, batchSize, ctr.Com, ctr.Div)
}
