package scrapeworker

import "time"

const EventName = "scraper/url.requested"

type ScrapeRequestedEventData struct {
	URL string `json:"url"`
}

type ScrapeRequestedEnvelope struct {
	EventName string                   `json:"event_name"`
	EventID   string                   `json:"event_id"`
	TS        time.Time                `json:"ts"`
	Data      ScrapeRequestedEventData `json:"data"`
}
