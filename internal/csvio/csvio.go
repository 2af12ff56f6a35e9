// Package csvio writes scraped events to the CSV artifacts the status
// command counts.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"summit-abstract-miner/internal/scrape"
)

// Header is the column set of both result CSVs.
var Header = []string{"url", "title", "authors", "abstract", "captured_at"}

func record(ev scrape.Event) []string {
	return []string{
		ev.URL,
		ev.Title,
		ev.Authors,
		ev.Abstract,
		ev.CapturedAt.UTC().Format(time.RFC3339),
	}
}

// Append adds events to the CSV at path, writing the header first when the
// file does not exist yet.
func Append(path string, events []scrape.Event) error {
	if len(events) == 0 {
		return nil
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, ev := range events {
		if err := w.Write(record(ev)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSnapshot replaces the CSV at path with header + events, via a temp
// file and rename so a concurrent status check never sees a half-written
// file.
func WriteSnapshot(path string, events []scrape.Event) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, ev := range events {
		if err := w.Write(record(ev)); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
