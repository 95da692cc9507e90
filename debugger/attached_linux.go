package debugger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

const statusPath = "/proc/self/status"

// IsAttached reports whether another process is ptrace-attached to us,
// which is how delve and gdb attach.
func IsAttached() (bool, error) {
	data, err := os.ReadFile(statusPath)
	if err != nil {
		return false, err
	}
	return tracerAttached(bytes.NewReader(data))
}

func tracerAttached(status io.Reader) (bool, error) {
	scanner := bufio.NewScanner(status)
	for scanner.Scan() {
		key, val, ok := bytes.Cut(scanner.Bytes(), []byte(":"))
		if !ok || string(key) != "TracerPid" {
			continue
		}
		pid, err := strconv.Atoi(string(bytes.TrimSpace(val)))
		if err != nil {
			return false, fmt.Errorf("parsing TracerPid: %w", err)
		}
		return pid != 0, nil
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return false, fmt.Errorf("%s: no TracerPid", statusPath)
}
