package invocation

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// PeakMemory reports the high-water resident set size of pid, in
// bytes. Where the platform keeps no high-water mark, the current RSS
// is used instead.
func PeakMemory(ctx context.Context, pid int) (uint64, error) {
	rss, rssErr := residentMemory(ctx, pid)
	hwm, err := highWaterMark(pid)
	if err != nil {
		return rss, rssErr
	}
	return max(hwm, rss), nil
}

func SelfPeakMemory(ctx context.Context) (uint64, error) {
	return PeakMemory(ctx, os.Getpid())
}

func residentMemory(ctx context.Context, pid int) (uint64, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return 0, fmt.Errorf("process %d: %w", pid, err)
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("memory info for %d: %w", pid, err)
	}
	return mem.RSS, nil
}
