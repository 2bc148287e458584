// Package fsutil resolves the afero.Fs backend used by scatter and
// gather. Production runs use the OS filesystem; tests use an in-memory
// one so they never touch disk.
package fsutil

import (
	"fmt"

	"github.com/spf13/afero"
)

const (
	OsType  = "os"
	MemType = "mem"
)

var supportedTypes = []string{OsType, MemType}

// Get returns the afero.Fs backend named by typ.
func Get(typ string) (afero.Fs, error) {
	switch typ {
	case OsType:
		return afero.NewOsFs(), nil
	case MemType:
		return afero.NewMemMapFs(), nil
	}
	return nil, fmt.Errorf("unknown filesystem type %q (supported: %v)", typ, supportedTypes)
}
