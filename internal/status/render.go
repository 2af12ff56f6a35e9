package status

import (
	"fmt"
	"io"
)

// WriteText renders the report the way the original shell status script
// printed it: status line, log tail, csv counts, hint.
func (r Report) WriteText(w io.Writer) {
	fmt.Fprintln(w, "=== scraper status ===")
	switch r.PID.State {
	case PIDRunning:
		fmt.Fprintf(w, "✅ scraper is running (pid %d)\n", r.PID.PID)
	case PIDStale:
		fmt.Fprintf(w, "❌ scraper is not running (stale pid %d in %s)\n", r.PID.PID, r.PID.File)
	case PIDInvalid:
		fmt.Fprintf(w, "❌ scraper is not running (unreadable pid in %s)\n", r.PID.File)
	default:
		fmt.Fprintf(w, "%s not found (scraper not started?)\n", r.PID.File)
	}

	fmt.Fprintf(w, "--- last lines of %s ---\n", r.Log.File)
	if !r.Log.Present {
		fmt.Fprintf(w, "%s not found (no log output yet)\n", r.Log.File)
	} else if len(r.Log.Lines) == 0 {
		fmt.Fprintf(w, "%s is empty\n", r.Log.File)
	} else {
		for _, line := range r.Log.Lines {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w, "--- results ---")
	for _, c := range r.CSVs {
		if !c.Present {
			fmt.Fprintf(w, "%s not found (no results yet)\n", c.File)
			continue
		}
		fmt.Fprintf(w, "%s: %d lines\n", c.File, c.Lines)
	}

	fmt.Fprintln(w, r.Hint)
}
