package logtail

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestTail_FewerLinesThanRequested(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "one\ntwo\nthree\n")
	lines, err := Tail(path, 20)
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTail_ReturnsLastN(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	path := writeFixture(t, sb.String())

	lines, err := Tail(path, 20)
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	if lines[0] != "line 81" || lines[19] != "line 100" {
		t.Fatalf("unexpected window: first=%q last=%q", lines[0], lines[19])
	}
}

func TestTail_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "alpha\nbeta")
	lines, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "beta" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestTail_LargeFileCrossesChunks(t *testing.T) {
	t.Parallel()

	pad := strings.Repeat("x", 512)
	var sb strings.Builder
	for i := 1; i <= 200; i++ {
		fmt.Fprintf(&sb, "%s %d\n", pad, i)
	}
	path := writeFixture(t, sb.String())

	lines, err := Tail(path, 50)
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[49], " 200") {
		t.Fatalf("unexpected last line: %q", lines[49])
	}
}

func TestTail_EmptyFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "")
	lines, err := Tail(path, 20)
	if err != nil {
		t.Fatalf("Tail error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestTail_Missing(t *testing.T) {
	t.Parallel()

	_, err := Tail(filepath.Join(t.TempDir(), "scraper.log"), 20)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
