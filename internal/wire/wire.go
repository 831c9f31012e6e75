// Package wire holds the byte order and fixed-size string helpers shared by
// command messages and file headers.
package wire

import (
	"bytes"
	"encoding/binary"
)

// Order is the byte order of command messages and file headers. Memory
// payloads use the platform order instead (see platform.Order).
var Order = binary.BigEndian

// CString returns the string stored in a NUL-padded fixed-size field. A
// field with no NUL is taken whole.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// PutCString copies s into dst, truncated so that at least one NUL
// terminator remains, and zeroes the rest of dst.
func PutCString(dst []byte, s string) {
	n := copy(dst[:max(len(dst)-1, 0)], s)
	clear(dst[n:])
}

// FitsCString reports whether s fits a field of size n with its terminator.
func FitsCString(s string, n int) bool {
	return len(s) < n
}
