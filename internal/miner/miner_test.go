package miner

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"summit-abstract-miner/config"
	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/pidfile"
	"summit-abstract-miner/internal/scrape"
)

type fakeFetcher struct {
	urls   []string
	events map[string]scrape.Event

	sawPIDFile bool
	pidPath    string
}

func (f *fakeFetcher) CollectEventURLs(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(f.pidPath); err == nil {
		f.sawPIDFile = true
	}
	return f.urls, nil
}

func (f *fakeFetcher) FetchEvent(ctx context.Context, url string) (scrape.Event, error) {
	ev, ok := f.events[url]
	if !ok {
		return scrape.Event{}, fmt.Errorf("fetch %s: not found", url)
	}
	return ev, nil
}

type memorySeen struct {
	mu   sync.Mutex
	urls map[string]bool
}

func newMemorySeen() *memorySeen { return &memorySeen{urls: map[string]bool{}} }

func (s *memorySeen) Seen(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls[url], nil
}

func (s *memorySeen) MarkSeen(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[url] = true
	return nil
}

type captureSink struct {
	inputs []dao.UpsertEventInput
}

func (c *captureSink) UpsertBatch(_ context.Context, inputs []dao.UpsertEventInput) error {
	c.inputs = append(c.inputs, inputs...)
	return nil
}

func testScraperConfig(dir string) config.ScraperConfig {
	return config.ScraperConfig{
		Dir:             dir,
		PIDFile:         "scraper.pid",
		LogFile:         "scraper.log",
		AllEventsCSV:    "aps_summit_all_events.csv",
		HitsCSV:         "aps_summit_superconducting_qubits.csv",
		TailLines:       20,
		CheckpointEvery: 2,
	}
}

func event(id, title, abstract string) scrape.Event {
	url := "https://summit.aps.org/smt/2026/events/" + id
	return scrape.Event{
		URL:        url,
		Title:      title,
		Abstract:   abstract,
		CapturedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return len(rows)
}

func TestRun_FullPass(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e1 := event("MAR-A01", "Transmon readout", "We measure a transmon qubit.")
	e2 := event("MAR-A02", "Soft matter", "Entangled polymer melts.")
	e3 := event("MAR-A03", "Fluxonium gates", "Cross resonance on fluxonium.")

	fetcher := &fakeFetcher{
		urls: []string{e1.URL, e2.URL, e3.URL, "https://summit.aps.org/smt/2026/events/MAR-Z99"},
		events: map[string]scrape.Event{
			e1.URL: e1,
			e2.URL: e2,
			e3.URL: e3,
		},
		pidPath: filepath.Join(dir, "scraper.pid"),
	}
	seen := newMemorySeen()
	sink := &captureSink{}

	m := New(Params{
		Cfg:     testScraperConfig(dir),
		Fetcher: fetcher,
		Seen:    seen,
		Sink:    sink,
		Logger:  zap.NewNop().Sugar(),
	})

	sum, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if sum.Collected != 4 || sum.Fetched != 3 || sum.Failed != 1 || sum.Hits != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !fetcher.sawPIDFile {
		t.Fatalf("pid file was not written before collection started")
	}
	if _, err := os.Stat(filepath.Join(dir, "scraper.pid")); !os.IsNotExist(err) {
		t.Fatalf("pid file should be removed after a clean pass")
	}

	// Header + 3 events, header + 2 hits.
	if n := countRows(t, filepath.Join(dir, "aps_summit_all_events.csv")); n != 4 {
		t.Fatalf("expected 4 rows in all-events csv, got %d", n)
	}
	if n := countRows(t, filepath.Join(dir, "aps_summit_superconducting_qubits.csv")); n != 3 {
		t.Fatalf("expected 3 rows in hits csv, got %d", n)
	}

	if len(sink.inputs) != 3 {
		t.Fatalf("expected 3 events flushed to sink, got %d", len(sink.inputs))
	}

	// Checkpoint snapshots are left behind (CheckpointEvery=2 fires once).
	if _, err := os.Stat(filepath.Join(dir, "aps_summit_all_events_temp.csv")); err != nil {
		t.Fatalf("expected checkpoint snapshot: %v", err)
	}
}

func TestRun_SkipsSeenURLs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e1 := event("MAR-A01", "Transmon readout", "transmon")

	fetcher := &fakeFetcher{
		urls:    []string{e1.URL},
		events:  map[string]scrape.Event{e1.URL: e1},
		pidPath: filepath.Join(dir, "scraper.pid"),
	}
	seen := newMemorySeen()
	if err := seen.MarkSeen(context.Background(), e1.URL); err != nil {
		t.Fatalf("mark seen: %v", err)
	}

	m := New(Params{
		Cfg:     testScraperConfig(dir),
		Fetcher: fetcher,
		Seen:    seen,
		Logger:  zap.NewNop().Sugar(),
	})

	sum, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Skipped != 1 || sum.Fetched != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_StalePIDAfterCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e1 := event("MAR-A01", "Transmon readout", "transmon")
	fetcher := &fakeFetcher{
		urls:    []string{e1.URL},
		events:  map[string]scrape.Event{e1.URL: e1},
		pidPath: filepath.Join(dir, "scraper.pid"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Params{
		Cfg:     testScraperConfig(dir),
		Fetcher: fetcher,
		Logger:  zap.NewNop().Sugar(),
	})

	sum, err := m.Run(ctx)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Fetched != 0 {
		t.Fatalf("expected no fetches after cancel, got %+v", sum)
	}
	// Clean exit still removes the pid file.
	if _, err := os.Stat(filepath.Join(dir, "scraper.pid")); !os.IsNotExist(err) {
		t.Fatalf("pid file should be removed")
	}
}

func TestRun_ReadsPIDAsAlive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fetcher := &fakeFetcher{pidPath: filepath.Join(dir, "scraper.pid")}

	probe := &pidProbe{path: fetcher.pidPath}
	m := New(Params{
		Cfg:     testScraperConfig(dir),
		Fetcher: probeFetcher{fetcher: fetcher, probe: probe},
		Logger:  zap.NewNop().Sugar(),
	})

	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !probe.alive {
		t.Fatalf("expected recorded pid to be alive during the pass")
	}
}

type pidProbe struct {
	path  string
	alive bool
}

type probeFetcher struct {
	fetcher *fakeFetcher
	probe   *pidProbe
}

func (p probeFetcher) CollectEventURLs(ctx context.Context) ([]string, error) {
	if pid, err := pidfile.Read(p.probe.path); err == nil {
		if ok, err := pidfile.Alive(pid); err == nil && ok {
			p.probe.alive = true
		}
	}
	return p.fetcher.CollectEventURLs(ctx)
}

func (p probeFetcher) FetchEvent(ctx context.Context, url string) (scrape.Event, error) {
	return p.fetcher.FetchEvent(ctx, url)
}
