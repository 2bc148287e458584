// Package bitmap implements the bit-sliced fingerprint map shared by
// scatter and gather: a byte array of length M_COM+M_DIV where bit id
// of the byte at a compound index encodes one cell of diversified
// filter id (spec.md section 4.2).
package bitmap

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/kargakis/xrep/pkg/bitutil"
	"github.com/kargakis/xrep/pkg/params"
)

// Map is the bit-sliced fingerprint map. Bit set means "no reference
// shingle mapped here"; bit clear means "at least one reference
// shingle mapped here" (scatter's view).
type Map struct {
	body []byte
}

// New allocates a map of the size required by cfg, with every bit set
// (the all-ones reset scatter performs before processing any
// reference shingle).
func New(cfg params.Config) *Map {
	body := make([]byte, cfg.MapSize())
	for i := range body {
		body[i] = 0xFF
	}
	return &Map{body: body}
}

// ClearBit clears bit id of the byte at compound index com+div,
// recording that a reference shingle landed on filter id's cell.
func (m *Map) ClearBit(com uint64, div byte, id int) {
	m.body[com+uint64(div)] &^= 1 << uint(id)
}

// CheckHash returns the OR, across all DV filters, of the map bit at
// each filter's compound index. A shingle hits the map (is possibly
// present in the reference) iff the result is zero.
func (m *Map) CheckHash(com uint64, div []byte) byte {
	var w byte
	for id, d := range div {
		w |= m.body[com+uint64(d)] & (1 << uint(id))
	}
	return w
}

// Size returns the map body length, M_COM+M_DIV.
func (m *Map) Size() int {
	return len(m.body)
}

// Save writes the map file layout documented in spec.md section 6:
// an 8-byte big-endian setupTime followed by the map body.
func Save(fs afero.Fs, path string, setupTime int64, m *Map) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create map file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(bitutil.Uint64ToBytes(uint64(setupTime))); err != nil {
		return fmt.Errorf("cannot write map setup time: %w", err)
	}
	if _, err := f.Write(m.body); err != nil {
		return fmt.Errorf("cannot write map body: %w", err)
	}
	return nil
}

// ErrMapFileOpen is wrapped into a *pipeline.FatalError (exit code 26)
// by callers that cannot open the map file.
var ErrMapFileOpen = fmt.Errorf("cannot open map file")

// ErrMapFileShort is wrapped into a *pipeline.FatalError (exit code 27)
// by callers when the map file is shorter than its declared contents.
var ErrMapFileShort = fmt.Errorf("map file shorter than M_COM+M_DIV")

// Load reads a map file written by Save and returns its setup time
// and map body, validated against cfg's expected size.
func Load(fs afero.Fs, path string, cfg params.Config) (int64, *Map, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMapFileOpen, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMapFileOpen, err)
	}
	if uint64(info.Size()) < 8+cfg.MapSize() {
		return 0, nil, fmt.Errorf("%w: have %d, need %d", ErrMapFileShort, info.Size(), 8+cfg.MapSize())
	}

	header := make([]byte, 8)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, nil, fmt.Errorf("cannot read map setup time: %w", err)
	}
	setupTime := int64(bitutil.BytesToUint64(header))

	body := make([]byte, cfg.MapSize())
	if _, err := io.ReadFull(f, body); err != nil {
		return 0, nil, fmt.Errorf("cannot read map body: %w", err)
	}
	return setupTime, &Map{body: body}, nil
}
