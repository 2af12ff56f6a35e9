package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seenKey = "scraper:seen_urls"
	seenTTL = 7 * 24 * time.Hour
)

// SeenURLs marks event URLs already fetched so repeated passes skip them.
// A nil redis client turns every operation into a no-op: nothing is ever
// considered seen.
type SeenURLs struct {
	client *redis.Client
}

func NewSeenURLs(client *redis.Client) *SeenURLs {
	return &SeenURLs{client: client}
}

func (s *SeenURLs) Seen(ctx context.Context, url string) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	return s.client.SIsMember(ctx, seenKey, url).Result()
}

func (s *SeenURLs) MarkSeen(ctx context.Context, url string) error {
	if s == nil || s.client == nil {
		return nil
	}
	if err := s.client.SAdd(ctx, seenKey, url).Err(); err != nil {
		return err
	}
	// Refresh on every write; the set expires as a whole.
	return s.client.Expire(ctx, seenKey, seenTTL).Err()
}
