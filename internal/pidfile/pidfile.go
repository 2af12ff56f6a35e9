// Package pidfile reads and writes the scraper's PID file and answers
// whether the recorded process is still alive.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

var ErrInvalid = errors.New("pid file does not contain a valid pid")

// Write records pid in a plain text file, one decimal number and a newline.
func Write(path string, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalid, pid)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// Read parses the pid from path. A missing file surfaces as os.ErrNotExist;
// garbage or a non-positive number surfaces as ErrInvalid.
func Read(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, strings.TrimSpace(string(b)))
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalid, pid)
	}
	return pid, nil
}

// Remove deletes the pid file. A missing file is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Alive reports whether a process with the given pid exists in the process
// table. The pid is an opaque token; no ownership check is attempted.
func Alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, nil
	}
	return process.PidExists(int32(pid))
}
