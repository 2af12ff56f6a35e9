package scrapeworker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"summit-abstract-miner/config"
	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/csvio"
	"summit-abstract-miner/internal/filter"
	"summit-abstract-miner/internal/scrape"
)

type eventFetcher interface {
	FetchEvent(ctx context.Context, pageURL string) (scrape.Event, error)
}

type eventWriter interface {
	UpsertEvent(ctx context.Context, in dao.UpsertEventInput) (string, error)
}

// ScrapeHandler processes one requested URL: fetch the event page, extract
// the abstract, match keywords, and persist to both the CSV artifacts and
// the SQLite store.
type ScrapeHandler struct {
	cfg     config.Config
	fetcher eventFetcher
	matcher *filter.Matcher
	store   eventWriter
	logger  *zap.SugaredLogger
}

type NewScrapeHandlerParams struct {
	fx.In

	Cfg    config.Config
	Store  *dao.EventStore
	Logger *zap.SugaredLogger
}

func NewScrapeHandler(p NewScrapeHandlerParams) (*ScrapeHandler, error) {
	matcher, err := filter.ForKeywords(p.Cfg.Scraper.Keywords)
	if err != nil {
		return nil, fmt.Errorf("build keyword matcher: %w", err)
	}

	return &ScrapeHandler{
		cfg:     p.Cfg,
		fetcher: scrape.NewCollector(p.Cfg.Scraper, p.Logger),
		matcher: matcher,
		store:   p.Store,
		logger:  p.Logger,
	}, nil
}

func (h *ScrapeHandler) Handle(ctx context.Context, msg ScrapeRequestedEnvelope) error {
	url := strings.TrimSpace(msg.Data.URL)
	if url == "" {
		return fmt.Errorf("missing url")
	}
	if strings.TrimSpace(msg.EventID) == "" {
		return fmt.Errorf("missing event_id")
	}
	if strings.TrimSpace(msg.EventName) != "" && msg.EventName != EventName {
		return fmt.Errorf("unexpected event_name: %s", msg.EventName)
	}

	ev, err := h.fetcher.FetchEvent(ctx, url)
	if err != nil {
		h.logger.Errorw("scrapeworker_fetch_failed",
			"event_id", msg.EventID,
			"url", url,
			"err", err,
		)
		return err
	}
	if ev.Title == "" {
		// Unscrapeable pages are routine, not worth a dead-letter loop.
		h.logger.Infow("scrapeworker_empty_page", "event_id", msg.EventID, "url", url)
		return nil
	}

	hit := h.matcher.Match(ev.Title, ev.Abstract)

	if err := csvio.Append(filepath.Join(h.cfg.Scraper.Dir, h.cfg.Scraper.AllEventsCSV), []scrape.Event{ev}); err != nil {
		h.logger.Errorw("scrapeworker_append_all_failed", "event_id", msg.EventID, "err", err)
		return err
	}
	if hit {
		if err := csvio.Append(filepath.Join(h.cfg.Scraper.Dir, h.cfg.Scraper.HitsCSV), []scrape.Event{ev}); err != nil {
			h.logger.Errorw("scrapeworker_append_hits_failed", "event_id", msg.EventID, "err", err)
			return err
		}
	}

	if _, err := h.store.UpsertEvent(ctx, dao.UpsertEventInput{URL: ev.URL, Event: ev, Hit: hit}); err != nil {
		h.logger.Errorw("scrapeworker_persist_failed",
			"event_id", msg.EventID,
			"url", url,
			"err", err,
		)
		return err
	}

	h.logger.Infow("scrapeworker_finished",
		"event_id", msg.EventID,
		"url", url,
		"hit", hit,
	)

	return nil
}
