// Package csvstats inspects result CSVs without parsing them. The only
// property the status report cares about is the line count.
package csvstats

import (
	"bufio"
	"io"
	"os"
)

// LineCount counts newline-terminated lines, matching `wc -l`: a trailing
// partial line without a newline is not counted.
func LineCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	count := 0
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b == '\n' {
				count++
			}
		}
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// DataRows is LineCount minus the header line, clamped at zero.
func DataRows(path string) (int, error) {
	lines, err := LineCount(path)
	if err != nil {
		return 0, err
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil
}
