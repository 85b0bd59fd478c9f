// Package utils provides some helper functions.
package utils

import (
	"fmt"

	"github.com/docker/go-units"

	"github.com/ustclug/revlines/pkg/revlines"
)

// ParseSize parses a human readable size such as "4KiB", "4k" or "4096".
// Units are binary.
func ParseSize(s string) (int, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s", revlines.ErrInvalidBufferSize, s)
	}
	return int(n), nil
}

func PrettySize(size int64) string {
	if size < 0 {
		return "unknown"
	}
	return units.BytesSize(float64(size))
}
