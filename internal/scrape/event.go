package scrape

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Event is one talk or session extracted from an event page.
type Event struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Authors    string    `json:"authors"`
	Abstract   string    `json:"abstract"`
	CapturedAt time.Time `json:"captured_at"`
}

// Event IDs look like MAR-A16: three-letter month code, session letter,
// two-digit number.
var eventIDPattern = regexp.MustCompile(`\b([A-Z]{3}-[A-Z]\d{2})\b`)

// EventIDs returns the unique event IDs mentioned anywhere in text, sorted.
func EventIDs(text string) []string {
	seen := map[string]struct{}{}
	for _, m := range eventIDPattern.FindAllString(text, -1) {
		seen[m] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EventURL builds the canonical event page URL for an event ID.
func EventURL(base, id string) string {
	return fmt.Sprintf("%s/smt/2026/events/%s", base, id)
}

// GenerateEventIDs enumerates candidate IDs for the given month codes and
// session letters, numbers 1..maxNum inclusive. Used as a fallback when the
// schedule page yields no links (bot-protection interstitials).
func GenerateEventIDs(months []string, letters string, maxNum int) []string {
	var ids []string
	for _, month := range months {
		for _, letter := range letters {
			for num := 1; num <= maxNum; num++ {
				ids = append(ids, fmt.Sprintf("%s-%c%02d", month, letter, num))
			}
		}
	}
	return ids
}
