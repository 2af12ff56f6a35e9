// Package logtail returns the last lines of a text file without reading
// the whole file into memory.
package logtail

import (
	"bytes"
	"io"
	"os"
	"strings"
)

const chunkSize = 8 * 1024

// Tail returns up to n lines from the end of the file at path, in file
// order. A file with fewer lines returns them all. Line endings are
// stripped; a trailing newline does not produce an empty last line.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	var (
		buf    []byte
		offset = size
	)
	for offset > 0 {
		readSize := int64(chunkSize)
		if offset < readSize {
			readSize = offset
		}
		offset -= readSize

		chunk := make([]byte, readSize)
		if _, err := f.ReadAt(chunk, offset); err != nil && err != io.EOF {
			return nil, err
		}
		buf = append(chunk, buf...)

		// +1: a trailing newline ends a line rather than starting one.
		if bytes.Count(buf, []byte{'\n'}) >= n+1 {
			break
		}
	}

	text := strings.TrimRight(string(buf), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
