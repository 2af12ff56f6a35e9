package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"summit-abstract-miner/config"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// URL path fragments that show up in schedule links but never point at an
// event page.
var excludedFragments = []string{"registration", "privacy", "attend/", "about"}

// Collector fetches schedule and event pages. One Collector is good for one
// scrape pass; colly collectors are cloned per request kind.
type Collector struct {
	base        string
	scheduleURL string
	collector   *colly.Collector
	logger      *zap.SugaredLogger
}

func NewCollector(cfg config.ScraperConfig, logger *zap.SugaredLogger) *Collector {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c.SetRequestTimeout(timeout)

	return &Collector{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		scheduleURL: cfg.ScheduleURL,
		collector:   c,
		logger:      logger,
	}
}

// CollectEventURLs gathers candidate event page URLs from the schedule page:
// anchor hrefs matching the event URL shape, event IDs mentioned anywhere in
// the page body, and, when the page yields nothing (bot-protection
// interstitial), a generated MAR-A01..MAR-Z99 range.
func (s *Collector) CollectEventURLs(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}

	c := s.collector.Clone()
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if u, ok := s.eventPageURL(abs); ok {
			seen[u] = struct{}{}
		}
	})
	c.OnResponse(func(r *colly.Response) {
		for _, id := range EventIDs(string(r.Body)) {
			seen[EventURL(s.base, id)] = struct{}{}
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		s.logger.Warnw("schedule_fetch_failed", "url", r.Request.URL.String(), "status", r.StatusCode, "err", err)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(s.scheduleURL); err != nil {
		s.logger.Warnw("schedule_visit_failed", "url", s.scheduleURL, "err", err)
	}
	c.Wait()

	if len(seen) == 0 {
		s.logger.Infow("schedule_yielded_no_links_generating_ids")
		for _, id := range GenerateEventIDs([]string{"MAR"}, "ABCDEFGHIJKLMNOPQRSTUVWXYZ", 99) {
			seen[EventURL(s.base, id)] = struct{}{}
		}
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	s.logger.Infow("event_urls_collected", "count", len(urls))
	return urls, nil
}

// FetchEvent downloads one event page and extracts its fields.
func (s *Collector) FetchEvent(ctx context.Context, pageURL string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	var (
		ev       Event
		fetchErr error
	)

	c := s.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		ev, fetchErr = ExtractEvent(r.Body, pageURL)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return Event{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return Event{}, fetchErr
	}
	if ev.URL == "" {
		return Event{}, fmt.Errorf("fetch %s: empty response", pageURL)
	}
	return ev, nil
}

// eventPageURL reports whether raw points at an event page on the summit
// host and returns its normalized form.
func (s *Collector) eventPageURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	if !strings.Contains(u.Path, "/smt/") || !strings.Contains(u.Path, "/events/") {
		return "", false
	}
	for _, frag := range excludedFragments {
		if strings.Contains(u.Path, frag) {
			return "", false
		}
	}
	u.Fragment = ""
	u.RawQuery = ""
	return u.String(), true
}
