// Package pipeline drives the three-stage, three-worker rendezvous
// that both scatter and gather run over their container ring (spec.md
// section 4.3): a reader (W1), a hasher (W2) and a map worker (W3),
// each trailing the last by one stage, handing off containers around
// a ring of three.
package pipeline

import (
	"sync"
	"time"

	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/params"
)

// Reader fills a container with the next batch's bytes (shuffled,
// with any carry and demo injection already applied), placing
// batchSize new bytes starting at ctr.Buf[LC]. It returns an error if
// it cannot read them all.
type Reader interface {
	FillBatch(ctr *container.Container, batchID int, batchSize int) error
}

// Hasher computes the common and diversified fingerprints for every
// shingle in the batch the reader just filled.
type Hasher interface {
	HashBatch(ctr *container.Container, batchSize int)
}

// MapWorker consumes the hashes the hasher just computed: scatter's
// implementation clears map bits, gather's probes them and
// accumulates residue runs. j0 is the shingle index to start at,
// nonzero only for the very first batch of the stream (it skips the
// sentinel carry's shingles).
type MapWorker interface {
	ProcessBatch(ctr *container.Container, batchSize int, j0 int) error
}

// WorkerStats is the timing recorded for one worker across a whole run.
// Coordinator.Run accumulates Process; it does not measure Wait, which
// stays zero.
type WorkerStats struct {
	Wait    time.Duration
	Process time.Duration
}

// Stats is the per-worker timing breakdown of a completed run,
// reported by scatter and gather alongside their result summaries.
type Stats struct {
	W1, W2, W3 WorkerStats
	Stages     int
}

// Coordinator runs the reader/hasher/map-worker rendezvous over a
// container.Ring sized by cfg.
type Coordinator struct {
	ring *container.Ring
	cfg  params.Config
	pin  func(worker, cpu int) error
}

// New returns a Coordinator with a freshly allocated ring and no CPU
// pinning.
func New(cfg params.Config) *Coordinator {
	return &Coordinator{ring: container.NewRing(cfg), cfg: cfg}
}

// WithAffinity makes the coordinator pin each worker's goroutine to
// its own CPU via pin(workerIndex, cpu) before every stage it runs,
// workerIndex being 0 (reader), 1 (hasher) or 2 (map worker) and cpu
// always equal to workerIndex, so each worker keeps one fixed CPU. A pin
// failure is logged by the caller supplying pin; it is not treated as
// fatal to the run.
func (c *Coordinator) WithAffinity(pin func(worker, cpu int) error) *Coordinator {
	c.pin = pin
	return c
}

// Run drives streamLen bytes' worth of batches through reader, hasher
// and mapw. Stage s (1-indexed) activates:
//
//	W1 on container (s-1)%3, for s in [1, batchCount]
//	W2 on container (s-2)%3, for s in [2, batchCount+1]
//	W3 on container (s-3)%3, for s in [3, batchCount+2]
//
// so the pipeline has exactly batchCount+2 stages: two to fill and
// drain, batchCount to do the work. Every stage is a full barrier —
// all active workers must finish before the next stage's workers
// start — which is what lets each worker trust that the container it
// is about to touch was released by whoever held it last.
func (c *Coordinator) Run(streamLen uint64, reader Reader, hasher Hasher, mapw MapWorker) (Stats, error) {
	batchCount, err := c.cfg.BatchCount(streamLen)
	if err != nil {
		return Stats{}, &FatalError{Code: ExitBatchCountTooSmall, Err: err}
	}

	var stats Stats
	totalStages := batchCount + 2

	for s := 1; s <= totalStages; s++ {
		var wg sync.WaitGroup
		var w1Err, w2Err, w3Err error

		if s <= batchCount {
			idx := (s - 1) % 3
			batchID := s
			bs := c.cfg.BatchSizeFor(batchID, batchCount, streamLen)
			wg.Add(1)
			go func() {
				defer wg.Done()
				if c.pin != nil {
					c.pin(0, 0)
				}
				start := time.Now()
				if c.ring.Acquire(idx) {
					w1Err = &FatalError{Code: w1BusyCode(idx), Err: errContainerBusy("reader", idx)}
					return
				}
				err := reader.FillBatch(c.ring.At(idx), batchID, bs)
				c.ring.Release(idx)
				stats.W1.Process += time.Since(start)
				if err != nil {
					w1Err = &FatalError{Code: w1ShortReadCode(idx), Err: err}
				}
			}()
		}

		if s >= 2 && s <= batchCount+1 {
			idx := (s - 2) % 3
			batchID := s - 1
			bs := c.cfg.BatchSizeFor(batchID, batchCount, streamLen)
			wg.Add(1)
			go func() {
				defer wg.Done()
				if c.pin != nil {
					c.pin(1, 1)
				}
				start := time.Now()
				if c.ring.Acquire(idx) {
					w2Err = &FatalError{Code: w2BusyCode(idx), Err: errContainerBusy("hasher", idx)}
					return
				}
				hasher.HashBatch(c.ring.At(idx), bs)
				c.ring.Release(idx)
				stats.W2.Process += time.Since(start)
			}()
		}

		if s >= 3 {
			idx := (s - 3) % 3
			batchID := s - 2
			bs := c.cfg.BatchSizeFor(batchID, batchCount, streamLen)
			j0 := 0
			if batchID == 1 {
				j0 = c.cfg.LC()
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if c.pin != nil {
					c.pin(2, 2)
				}
				start := time.Now()
				if c.ring.Acquire(idx) {
					w3Err = &FatalError{Code: w3BusyCode(idx), Err: errContainerBusy("map worker", idx)}
					return
				}
				err := mapw.ProcessBatch(c.ring.At(idx), bs, j0)
				c.ring.Release(idx)
				stats.W3.Process += time.Since(start)
				if err != nil {
					w3Err = err
				}
			}()
		}

		wg.Wait()
		stats.Stages = s
		if w1Err != nil {
			return stats, w1Err
		}
		if w2Err != nil {
			return stats, w2Err
		}
		if w3Err != nil {
			return stats, w3Err
		}
	}

	return stats, nil
}
