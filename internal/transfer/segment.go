// Package transfer moves large regions between memory and files, or fills
// memory with a pattern, in bounded segments. Between segments the engine
// yields so that other cooperative work can run. A transfer is never
// retried or cancelled: it either completes or stops at the first failing
// segment.
package transfer

import (
	"fmt"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Segmenter splits a transfer into segments of at most Max bytes.
type Segmenter struct {
	Max   uint32
	Yield types.Yielder
}

// Run calls step for consecutive segments covering total bytes. It yields
// after every segment except the last, and stops at the first failing
// step. processed counts the bytes of the segments that succeeded; the
// transfer succeeded iff err is nil, in which case processed == total.
func (s Segmenter) Run(total uint32, step func(offset, size uint32) error) (processed uint32, err error) {
	if s.Max == 0 && total > 0 {
		return 0, fmt.Errorf("%w: segment size is zero", types.ErrInvalidLimits)
	}
	remaining := total
	for remaining > 0 {
		size := min(remaining, s.Max)
		if err := step(processed, size); err != nil {
			return processed, err
		}
		remaining -= size
		processed += size
		if remaining > 0 && s.Yield != nil {
			s.Yield.Yield()
		}
	}
	return processed, nil
}

// Segments returns how many segments Run will use for total bytes.
func (s Segmenter) Segments(total uint32) uint32 {
	if s.Max == 0 {
		return 0
	}
	return (total + s.Max - 1) / s.Max
}
