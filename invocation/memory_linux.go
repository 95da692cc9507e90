package invocation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// highWaterMark reads VmHWM from /proc/<pid>/status. gopsutil only
// reads statm, which has no peak.
func highWaterMark(pid int) (uint64, error) {
	path := fmt.Sprintf("/proc/%d/status", pid)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	hwm, err := parseHighWaterMark(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return hwm, nil
}

func parseHighWaterMark(status io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(status)
	for scanner.Scan() {
		key, val, ok := bytes.Cut(scanner.Bytes(), []byte(":"))
		if !ok || string(key) != "VmHWM" {
			continue
		}
		num, unit, _ := bytes.Cut(bytes.TrimSpace(val), []byte(" "))
		kb, err := strconv.ParseUint(string(num), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing VmHWM: %w", err)
		}
		if u := string(bytes.TrimSpace(unit)); u != "kB" {
			return 0, fmt.Errorf("VmHWM: unexpected unit %q", u)
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no VmHWM")
}
