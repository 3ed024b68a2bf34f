// Package binio holds the little-endian primitives shared by the wire
// codec. Every multi-byte field on the wire is little-endian, with no
// alignment padding.
package binio

import (
	"encoding/binary"
	"math"
)

// PutUint32 appends v to buf in little-endian order.
func PutUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// Uint32 reads a little-endian uint32 from the front of buf.
func Uint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// PutInt64 appends v to buf in little-endian order.
func PutInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

// Int64 reads a little-endian int64 from the front of buf.
func Int64(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// PutFloat64 appends the IEEE-754 bits of v to buf in little-endian order.
func PutFloat64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

// Float64 reads a little-endian IEEE-754 double from the front of buf.
func Float64(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}
