package worker

import (
	"testing"

	"github.com/kargakis/xrep/pkg/bitmap"
	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/params"
)

func TestGatherMapWorkerTracksRuns(t *testing.T) {
	cfg := params.Default()
	cfg.BatchSize = 8
	cfg.L = 1
	cfg.LP = 4 // threshold = LP - L = 3

	m := bitmap.New(cfg)
	ctr := container.New(cfg)

	// Every shingle j gets its own compound index j (com[j]==j and div
	// all equal to 0), so shingle j hits iff all DV bits at index j
	// have been cleared.
	for j := 0; j < cfg.BatchSize; j++ {
		ctr.Com[j] = uint64(j)
		for id := 0; id < params.DV; id++ {
			ctr.Div[j*params.DV+id] = 0
		}
	}
	// Make shingles 2,3,4,5 hit (a run of 4, exceeding threshold 3) by
	// clearing their bits; leave the rest set (miss).
	for _, j := range []int{2, 3, 4, 5} {
		for id := 0; id < params.DV; id++ {
			m.ClearBit(uint64(j), 0, id)
		}
	}

	mw := NewGatherMapWorker(m, cfg)
	if err := mw.ProcessBatch(ctr, cfg.BatchSize, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mw.MaxCount() != 4 {
		t.Fatalf("expected max_count 4, got %d", mw.MaxCount())
	}
	// Run of 4 > threshold 3: exactly 1 position (count=4) exceeds it.
	if got := len(mw.Residue()); got != 1 {
		t.Fatalf("expected 1 residue position, got %d", got)
	}
}

func TestGatherMapWorkerNoHitsNoResidue(t *testing.T) {
	cfg := params.Default()
	cfg.BatchSize = 8

	m := bitmap.New(cfg)
	ctr := container.New(cfg)
	for j := 0; j < cfg.BatchSize; j++ {
		ctr.Com[j] = uint64(j)
	}

	mw := NewGatherMapWorker(m, cfg)
	if err := mw.ProcessBatch(ctr, cfg.BatchSize, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mw.MaxCount() != 0 {
		t.Fatalf("expected max_count 0, got %d", mw.MaxCount())
	}
	if got := len(mw.Residue()); got != 0 {
		t.Fatalf("expected no residue, got %d", got)
	}
}
