package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scraper.pid")
	if err := Write(path, 12345); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if pid != 12345 {
		t.Fatalf("expected pid 12345, got %d", pid)
	}
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "scraper.pid"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestRead_Garbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scraper.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Read(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRead_NonPositive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scraper.pid")
	if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Read(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestWrite_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	err := Write(filepath.Join(t.TempDir(), "scraper.pid"), 0)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRemove_MissingIsFine(t *testing.T) {
	t.Parallel()

	if err := Remove(filepath.Join(t.TempDir(), "scraper.pid")); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
}

func TestAlive_Self(t *testing.T) {
	t.Parallel()

	ok, err := Alive(os.Getpid())
	if err != nil {
		t.Fatalf("Alive error: %v", err)
	}
	if !ok {
		t.Fatalf("expected own pid to be alive")
	}
}

func TestAlive_NonPositive(t *testing.T) {
	t.Parallel()

	ok, err := Alive(-1)
	if err != nil {
		t.Fatalf("Alive error: %v", err)
	}
	if ok {
		t.Fatalf("expected pid -1 to be dead")
	}
}
