// Package worker implements the concrete reader, hasher and map
// workers that scatter and gather wire into pipeline.Coordinator.
package worker

import (
	"io"

	"github.com/spf13/afero"

	"github.com/kargakis/xrep/pkg/container"
	"github.com/kargakis/xrep/pkg/shuffle"
)

// Reader fills containers from file, applying table to every new byte
// and, if demo is non-nil, the demo-string injection. It carries the
// trailing LC bytes of each batch forward as the next batch's
// sentinel-free carry.
type Reader struct {
	file  afero.File
	table shuffle.Table
	lc    int
	demo  func(batchID int, input []byte)

	carry []byte
}

// NewReader returns a Reader over file. The first call to FillBatch
// carries a sentinel all-zero carry, matching the very first shingle
// of the stream having no real predecessor bytes.
func NewReader(file afero.File, table shuffle.Table, lc int, demo func(batchID int, input []byte)) *Reader {
	return &Reader{file: file, table: table, lc: lc, demo: demo, carry: make([]byte, lc)}
}

// FillBatch implements pipeline.Reader.
func (r *Reader) FillBatch(ctr *container.Container, batchID int, batchSize int) error {
	copy(ctr.Buf[:r.lc], r.carry)

	input := ctr.Buf[r.lc : r.lc+batchSize]
	if _, err := io.ReadFull(r.file, input); err != nil {
		return err
	}

	r.table.Apply(input)
	if r.demo != nil {
		r.demo(batchID, input)
	}

	copy(r.carry, ctr.Buf[batchSize:batchSize+r.lc])
	return nil
}
