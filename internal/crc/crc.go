// Package crc computes the checksums carried in uninterruptible-load
// commands and in load/dump file headers.
//
// The algorithm is fixed per use site (see LoadWID, LoadFile, DumpFile);
// there is no negotiation at runtime.
package crc

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Algorithm selects a checksum.
type Algorithm uint8

// Supported algorithms.
const (
	CRC16 Algorithm = iota + 1 // CRC-16/ARC, reflected poly 0xA001, init 0
	CRC32                      // CRC-32/IEEE
)

// Checksums used by each operation.
const (
	LoadWID  = CRC16
	LoadFile = CRC16
	DumpFile = CRC16
)

func (a Algorithm) String() string {
	switch a {
	case CRC16:
		return "crc16"
	case CRC32:
		return "crc32"
	default:
		return fmt.Sprintf("crc(%d)", uint8(a))
	}
}

var crc16Table = makeCRC16Table(0xA001)

func makeCRC16Table(poly uint16) [256]uint16 {
	var t [256]uint16
	for i := range t {
		c := uint16(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = c>>1 ^ poly
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// Update continues a checksum over data. Checksum(a, x+y) equals
// Update(a, Checksum(a, x), y).
func Update(a Algorithm, crc uint32, data []byte) uint32 {
	switch a {
	case CRC16:
		c := uint16(crc)
		for _, b := range data {
			c = c>>8 ^ crc16Table[byte(c)^b]
		}
		return uint32(c)
	case CRC32:
		return crc32.Update(crc, crc32.IEEETable, data)
	default:
		panic(fmt.Sprintf("crc: unknown algorithm %d", a))
	}
}

// Checksum computes the checksum of data.
func Checksum(a Algorithm, data []byte) uint32 {
	return Update(a, 0, data)
}

// FromReader reads exactly n bytes from r in chunks of at most chunk bytes
// and returns their checksum. A short read is a types.ErrFileRead.
func FromReader(a Algorithm, r io.Reader, n int64, chunk int) (uint32, error) {
	if chunk <= 0 {
		chunk = types.MaxLoadSegment
	}
	buf := make([]byte, chunk)
	var sum uint32
	for n > 0 {
		size := int64(chunk)
		if n < size {
			size = n
		}
		got, err := io.ReadFull(r, buf[:size])
		if err != nil {
			return 0, fmt.Errorf("%w: read %d of %d bytes for checksum: %v", types.ErrFileRead, got, size, err)
		}
		sum = Update(a, sum, buf[:size])
		n -= size
	}
	return sum, nil
}

// Verify compares the checksum of data against want.
func Verify(a Algorithm, data []byte, want uint32) error {
	if got := Checksum(a, data); got != want {
		return fmt.Errorf("%w: computed 0x%08X, expected 0x%08X", types.ErrChecksumMismatch, got, want)
	}
	return nil
}
