// Package container implements the three-deep ring buffer that the
// reader, hasher and map worker hand off to each other batch by batch
// (spec.md section 4.3 and the "Container" glossary entry).
package container

import "github.com/kargakis/xrep/pkg/params"

// Container is one slot of the ring: a byte buffer long enough for a
// full batch plus its carry, and the hash arrays the hasher fills in.
type Container struct {
	Buf []byte
	Com []uint64
	Div []byte
}

// New allocates a container sized for cfg's batch size: a byte buffer
// of BatchSize+LC bytes, a common-hash array of BatchSize entries, and
// a diversified-hash array of BatchSize*DV entries (spec.md's
// Container definition).
func New(cfg params.Config) *Container {
	return &Container{
		Buf: make([]byte, cfg.BatchSize+cfg.LC()),
		Com: make([]uint64, cfg.BatchSize),
		Div: make([]byte, cfg.BatchSize*params.DV),
	}
}

// Ring is the fixed-size, three-container ring that workers rotate
// through. It also tracks, per container, whether a worker currently
// holds it, so a coordinator bug that schedules a worker onto a
// still-busy container can be detected rather than silently racing.
type Ring struct {
	containers [3]*Container
	busy       [3]bool
}

// NewRing allocates the three containers A, B, C.
func NewRing(cfg params.Config) *Ring {
	return &Ring{containers: [3]*Container{New(cfg), New(cfg), New(cfg)}}
}

// At returns the container at index idx (0, 1 or 2).
func (r *Ring) At(idx int) *Container {
	return r.containers[idx]
}

// Acquire marks container idx busy. It reports whether the container
// was already busy, which the caller should treat as a fatal
// invariant violation (spec.md's container-busy exit codes).
func (r *Ring) Acquire(idx int) (alreadyBusy bool) {
	alreadyBusy = r.busy[idx]
	r.busy[idx] = true
	return alreadyBusy
}

// Release marks container idx free.
func (r *Ring) Release(idx int) {
	r.busy[idx] = false
}
