// Package miner runs one scrape pass end to end: pid file, URL collection,
// fetch/extract/filter, CSV artifacts, and the optional events store.
package miner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"summit-abstract-miner/config"
	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/csvio"
	"summit-abstract-miner/internal/filter"
	"summit-abstract-miner/internal/pidfile"
	"summit-abstract-miner/internal/scrape"
)

// Fetcher is the scrape side the miner drives; *scrape.Collector satisfies it.
type Fetcher interface {
	CollectEventURLs(ctx context.Context) ([]string, error)
	FetchEvent(ctx context.Context, url string) (scrape.Event, error)
}

// SeenStore remembers URLs across passes; *cache.SeenURLs satisfies it.
// A nil SeenStore disables deduplication.
type SeenStore interface {
	Seen(ctx context.Context, url string) (bool, error)
	MarkSeen(ctx context.Context, url string) error
}

// EventSink persists events beyond the CSVs; *dao.EventStore satisfies it.
// A nil EventSink keeps the pass CSV-only.
type EventSink interface {
	UpsertBatch(ctx context.Context, inputs []dao.UpsertEventInput) error
}

type Summary struct {
	Collected int
	Skipped   int
	Fetched   int
	Failed    int
	Hits      int
}

type Miner struct {
	cfg     config.ScraperConfig
	fetcher Fetcher
	matcher *filter.Matcher
	seen    SeenStore
	sink    EventSink
	logger  *zap.SugaredLogger
}

type Params struct {
	Cfg     config.ScraperConfig
	Fetcher Fetcher
	Matcher *filter.Matcher
	Seen    SeenStore
	Sink    EventSink
	Logger  *zap.SugaredLogger
}

func New(p Params) *Miner {
	m := &Miner{
		cfg:     p.Cfg,
		fetcher: p.Fetcher,
		matcher: p.Matcher,
		seen:    p.Seen,
		sink:    p.Sink,
		logger:  p.Logger,
	}
	if m.matcher == nil {
		m.matcher = filter.Default()
	}
	return m
}

// Run executes one pass. The pid file is written before any network work and
// removed on the way out; a crash leaves it stale, which the status command
// reports as "not running".
func (m *Miner) Run(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(m.cfg.Dir, 0o755); err != nil {
		return Summary{}, err
	}

	pidPath := filepath.Join(m.cfg.Dir, m.cfg.PIDFile)
	if err := pidfile.Write(pidPath, os.Getpid()); err != nil {
		return Summary{}, fmt.Errorf("write pid file: %w", err)
	}
	defer func() {
		if err := pidfile.Remove(pidPath); err != nil {
			m.logger.Warnw("pid_file_remove_failed", "path", pidPath, "err", err)
		}
	}()

	m.logger.Infow("scrape_pass_started", "pid", os.Getpid(), "dir", m.cfg.Dir)

	urls, err := m.fetcher.CollectEventURLs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("collect event urls: %w", err)
	}

	var (
		sum        Summary
		all        []scrape.Event
		hits       []scrape.Event
		batch      []dao.UpsertEventInput
		checkpoint = m.cfg.CheckpointEvery
	)
	sum.Collected = len(urls)
	if checkpoint <= 0 {
		checkpoint = 100
	}

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			m.logger.Warnw("scrape_pass_cancelled", "processed", i, "of", len(urls))
			break
		}

		if seen, err := m.seenURL(ctx, url); err != nil {
			m.logger.Warnw("seen_check_failed", "url", url, "err", err)
		} else if seen {
			sum.Skipped++
			continue
		}

		if i > 0 && m.cfg.RequestDelay > 0 {
			sleep(ctx, m.cfg.RequestDelay)
		}

		ev, err := m.fetcher.FetchEvent(ctx, url)
		if err != nil {
			// Generated IDs produce plenty of 404s; those are routine.
			sum.Failed++
			m.logger.Debugw("event_fetch_failed", "url", url, "err", err)
			continue
		}
		if ev.Title == "" {
			sum.Failed++
			continue
		}

		sum.Fetched++
		hit := m.matcher.Match(ev.Title, ev.Abstract)
		if hit {
			sum.Hits++
			hits = append(hits, ev)
		}
		all = append(all, ev)
		batch = append(batch, dao.UpsertEventInput{URL: ev.URL, Event: ev, Hit: hit})

		m.markSeen(ctx, url)

		if sum.Fetched%checkpoint == 0 {
			m.checkpoint(ctx, all, hits, &batch)
			m.logger.Infow("scrape_pass_progress",
				"processed", i+1,
				"of", len(urls),
				"fetched", sum.Fetched,
				"hits", sum.Hits,
			)
		}
	}

	if err := csvio.WriteSnapshot(filepath.Join(m.cfg.Dir, m.cfg.AllEventsCSV), all); err != nil {
		return sum, fmt.Errorf("write %s: %w", m.cfg.AllEventsCSV, err)
	}
	if err := csvio.WriteSnapshot(filepath.Join(m.cfg.Dir, m.cfg.HitsCSV), hits); err != nil {
		return sum, fmt.Errorf("write %s: %w", m.cfg.HitsCSV, err)
	}
	m.flushSink(ctx, &batch)

	m.logger.Infow("scrape_pass_done",
		"collected", sum.Collected,
		"skipped", sum.Skipped,
		"fetched", sum.Fetched,
		"failed", sum.Failed,
		"hits", sum.Hits,
	)
	return sum, nil
}

// checkpoint persists intermediate results so a crash keeps most of the work.
func (m *Miner) checkpoint(ctx context.Context, all, hits []scrape.Event, batch *[]dao.UpsertEventInput) {
	if err := csvio.WriteSnapshot(filepath.Join(m.cfg.Dir, tempName(m.cfg.AllEventsCSV)), all); err != nil {
		m.logger.Warnw("checkpoint_write_failed", "file", tempName(m.cfg.AllEventsCSV), "err", err)
	}
	if err := csvio.WriteSnapshot(filepath.Join(m.cfg.Dir, tempName(m.cfg.HitsCSV)), hits); err != nil {
		m.logger.Warnw("checkpoint_write_failed", "file", tempName(m.cfg.HitsCSV), "err", err)
	}
	m.flushSink(ctx, batch)
}

func (m *Miner) flushSink(ctx context.Context, batch *[]dao.UpsertEventInput) {
	if m.sink == nil || len(*batch) == 0 {
		return
	}
	if err := m.sink.UpsertBatch(ctx, *batch); err != nil {
		m.logger.Warnw("event_store_flush_failed", "count", len(*batch), "err", err)
		return
	}
	*batch = (*batch)[:0]
}

func (m *Miner) seenURL(ctx context.Context, url string) (bool, error) {
	if m.seen == nil {
		return false, nil
	}
	return m.seen.Seen(ctx, url)
}

func (m *Miner) markSeen(ctx context.Context, url string) {
	if m.seen == nil {
		return
	}
	if err := m.seen.MarkSeen(ctx, url); err != nil {
		m.logger.Warnw("mark_seen_failed", "url", url, "err", err)
	}
}

func tempName(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)] + "_temp" + ext
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
