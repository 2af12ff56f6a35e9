package status

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"summit-abstract-miner/internal/pidfile"
)

func testOptions(dir string, alive func(int) (bool, error)) Options {
	return Options{
		Dir:       dir,
		PIDFile:   "scraper.pid",
		LogFile:   "scraper.log",
		CSVFiles:  []string{"aps_summit_all_events.csv", "aps_summit_superconducting_qubits.csv"},
		TailLines: 20,
		Alive:     alive,
	}
}

func TestCollect_NothingPresent(t *testing.T) {
	t.Parallel()

	r := Collect(testOptions(t.TempDir(), nil))

	if r.PID.State != PIDMissing {
		t.Fatalf("expected missing pid file, got %q", r.PID.State)
	}
	if r.Log.Present {
		t.Fatalf("expected absent log file")
	}
	if len(r.CSVs) != 2 {
		t.Fatalf("expected 2 csv checks, got %d", len(r.CSVs))
	}
	for _, c := range r.CSVs {
		if c.Present {
			t.Fatalf("expected %s to be absent", c.File)
		}
	}
	if r.Hint == "" {
		t.Fatalf("expected hint line")
	}
}

func TestCollect_RunningWithArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := pidfile.Write(filepath.Join(dir, "scraper.pid"), 4242); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scraper.log"), []byte("start\nfetch MAR-A01\nfetch MAR-A02\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "aps_summit_all_events.csv"), []byte("url,title,authors,abstract\nrow\nrow\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	alive := func(pid int) (bool, error) { return pid == 4242, nil }
	r := Collect(testOptions(dir, alive))

	if r.PID.State != PIDRunning || r.PID.PID != 4242 {
		t.Fatalf("expected running pid 4242, got %+v", r.PID)
	}
	if !r.Log.Present || len(r.Log.Lines) != 3 {
		t.Fatalf("unexpected log status: %+v", r.Log)
	}
	if !r.CSVs[0].Present || r.CSVs[0].Lines != 3 {
		t.Fatalf("unexpected all-events csv status: %+v", r.CSVs[0])
	}
	if r.CSVs[1].Present {
		t.Fatalf("expected hits csv to be absent")
	}
}

func TestCollect_StalePID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := pidfile.Write(filepath.Join(dir, "scraper.pid"), 4242); err != nil {
		t.Fatalf("write pid: %v", err)
	}

	alive := func(int) (bool, error) { return false, nil }
	r := Collect(testOptions(dir, alive))

	if r.PID.State != PIDStale || r.PID.PID != 4242 {
		t.Fatalf("expected stale pid 4242, got %+v", r.PID)
	}
}

func TestCollect_InvalidPIDFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scraper.pid"), []byte("garbage\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}

	r := Collect(testOptions(dir, nil))
	if r.PID.State != PIDInvalid {
		t.Fatalf("expected invalid pid state, got %q", r.PID.State)
	}
}

func TestWriteText_Placeholders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Collect(testOptions(t.TempDir(), nil)).WriteText(&buf)
	out := buf.String()

	for _, want := range []string{
		"scraper.pid not found",
		"scraper.log not found",
		"aps_summit_all_events.csv not found",
		"aps_summit_superconducting_qubits.csv not found",
		"Hint:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteText_CountsAndTail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "aps_summit_all_events.csv"), []byte(strings.Repeat("x\n", 7)), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scraper.log"), []byte("progress 10/100\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	var buf bytes.Buffer
	Collect(testOptions(dir, nil)).WriteText(&buf)
	out := buf.String()

	if !strings.Contains(out, "aps_summit_all_events.csv: 7 lines") {
		t.Fatalf("output missing csv count:\n%s", out)
	}
	if !strings.Contains(out, "progress 10/100") {
		t.Fatalf("output missing log tail:\n%s", out)
	}
}
