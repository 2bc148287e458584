// Package testdata builds small master-file fixtures for scatter and
// gather tests. Generating the master file itself is out of scope for
// xrep (spec.md's Non-goals), so this exists only for tests, not as a
// CLI-exposed builder.
package testdata

import (
	"math/rand"

	"github.com/spf13/afero"
)

// WriteMaster writes reference followed by test to path on fs and
// returns their lengths.
func WriteMaster(fs afero.Fs, path string, reference, test []byte) (ns, NS uint64, err error) {
	f, err := fs.Create(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	if _, err := f.Write(reference); err != nil {
		return 0, 0, err
	}
	if _, err := f.Write(test); err != nil {
		return 0, 0, err
	}
	return uint64(len(reference)), uint64(len(test)), nil
}

// RandomBytes returns n pseudo-random bytes from a seeded generator,
// for building large reference/test streams deterministically.
func RandomBytes(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	rng.Read(buf)
	return buf
}
