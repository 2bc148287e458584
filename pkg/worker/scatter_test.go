package worker

import (
	"testing"

	"github.com/kargakis/xrep/pkg/bitmap"
	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/hashengine"
	"github.com/kargakis/xrep/pkg/params"
)

func TestScatterMapWorkerClearsBits(t *testing.T) {
	cfg := params.Default()
	cfg.BatchSize = 8

	m := bitmap.New(cfg)
	eng := hashengine.New(cfg)
	ctr := container.New(cfg)

	for i := range ctr.Buf {
		ctr.Buf[i] = byte(i)
	}
	eng.HashBatch(ctr.Buf, cfg.BatchSize, ctr.Com, ctr.Div)

	mw := NewScatterMapWorker(m)
	if err := mw.ProcessBatch(ctr, cfg.BatchSize, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for j := 0; j < cfg.BatchSize; j++ {
		div := ctr.Div[j*params.DV : j*params.DV+params.DV]
		if got := m.CheckHash(ctr.Com[j], div); got != 0 {
			t.Fatalf("shingle %d: expected all filter bits cleared after scatter, got %#b", j, got)
		}
	}
}

func TestScatterMapWorkerSkipsFirstJ0Shingles(t *testing.T) {
	cfg := params.Default()
	cfg.BatchSize = 8
	j0 := cfg.LC()

	m := bitmap.New(cfg)
	eng := hashengine.New(cfg)
	ctr := container.New(cfg)
	for i := range ctr.Buf {
		ctr.Buf[i] = byte(i)
	}
	eng.HashBatch(ctr.Buf, cfg.BatchSize, ctr.Com, ctr.Div)

	mw := NewScatterMapWorker(m)
	if err := mw.ProcessBatch(ctr, cfg.BatchSize, j0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for j := 0; j < j0; j++ {
		div := ctr.Div[j*params.DV : j*params.DV+params.DV]
		if got := m.CheckHash(ctr.Com[j], div); got == 0 {
			t.Fatalf("shingle %d was supposed to be skipped but its bits were cleared", j)
		}
	}
}
