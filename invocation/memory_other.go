//go:build !linux

package invocation

import "errors"

func highWaterMark(pid int) (uint64, error) {
	return 0, errors.New("no high-water mark on this platform")
}
