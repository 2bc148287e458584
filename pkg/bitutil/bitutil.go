// Package bitutil provides fixed-width big-endian integer encoding used
// by the map file header and by tests that build master/map fixtures
// byte-for-byte.
package bitutil

import "encoding/binary"

// Uint64ToBytes converts an unsigned 64-bit integer to an 8-byte slice.
// The byte order is big endian.
func Uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// BytesToUint64 converts an 8-byte big-endian slice back to a uint64.
// The provided slice is expected to be of size 8.
func BytesToUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
