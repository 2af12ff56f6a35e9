package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"summit-abstract-miner/db"
	"summit-abstract-miner/internal/scrape"
)

// EventStore persists scraped events in the local SQLite database. When
// SQLite is disabled the store logs and skips, so the CSV artifacts remain
// the source of truth.
type EventStore struct {
	conn      db.Conn
	dbx       *sqlx.DB
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

type NewEventStoreParams struct {
	fx.In

	Conn   db.Conn  `name:"sqlite"`
	DB     *sqlx.DB `name:"sqlite" optional:"true"`
	Logger *zap.SugaredLogger
}

func NewEventStore(p NewEventStoreParams) *EventStore {
	return &EventStore{
		conn:      p.Conn,
		dbx:       p.DB,
		logger:    p.Logger,
		validator: validator.New(),
	}
}

// NewEventStoreWithDB wires a store around an already opened handle, for
// callers outside the fx graph such as the scraper CLI.
func NewEventStoreWithDB(dbx *sqlx.DB, logger *zap.SugaredLogger) *EventStore {
	return &EventStore{
		conn:      dbx,
		dbx:       dbx,
		logger:    logger,
		validator: validator.New(),
	}
}

type UpsertEventInput struct {
	URL   string `validate:"required,url"`
	Event scrape.Event
	Hit   bool
}

const upsertEventSQL = `
INSERT INTO events (
  id,
  url,
  title,
  authors,
  abstract,
  is_hit,
  captured_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
  title = excluded.title,
  authors = excluded.authors,
  abstract = excluded.abstract,
  is_hit = excluded.is_hit,
  captured_at = excluded.captured_at
`

// UpsertEvent writes one event keyed by URL. Returns the row id.
func (s *EventStore) UpsertEvent(ctx context.Context, in UpsertEventInput) (string, error) {
	if err := s.validator.Struct(in); err != nil {
		return "", fmt.Errorf("validate upsert input: %w", err)
	}

	id := uuid.NewString()
	q := s.conn.Rebind(upsertEventSQL)
	_, err := s.conn.ExecContext(ctx, q, id, in.URL, in.Event.Title, in.Event.Authors,
		in.Event.Abstract, boolToInt(in.Hit), in.Event.CapturedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if errors.Is(err, db.ErrSQLiteDisabled) {
			s.logger.Infow("sqlite_disabled_skip_persist", "url", in.URL)
			return id, nil
		}
		return "", fmt.Errorf("upsert event: %w", err)
	}

	s.logger.Debugw("event_upserted", "url", in.URL, "hit", in.Hit)
	return id, nil
}

// UpsertBatch writes many events in one transaction, used by the miner's
// checkpointing. Falls back to per-row upserts when the raw handle is
// unavailable (disabled store).
func (s *EventStore) UpsertBatch(ctx context.Context, inputs []UpsertEventInput) error {
	if len(inputs) == 0 {
		return nil
	}
	if s.dbx == nil {
		for _, in := range inputs {
			if _, err := s.UpsertEvent(ctx, in); err != nil {
				return err
			}
		}
		return nil
	}

	_, err := db.Tx(ctx, s.dbx, func(tx *sqlx.Tx) (struct{}, error) {
		q := tx.Rebind(upsertEventSQL)
		for _, in := range inputs {
			if err := s.validator.Struct(in); err != nil {
				return struct{}{}, fmt.Errorf("validate upsert input: %w", err)
			}
			_, err := tx.ExecContext(ctx, q, uuid.NewString(), in.URL, in.Event.Title,
				in.Event.Authors, in.Event.Abstract, boolToInt(in.Hit),
				in.Event.CapturedAt.UTC().Format(time.RFC3339))
			if err != nil {
				return struct{}{}, fmt.Errorf("upsert event %s: %w", in.URL, err)
			}
		}
		return struct{}{}, nil
	})
	return err
}

type EventRecord struct {
	ID         string `db:"id" json:"id"`
	URL        string `db:"url" json:"url"`
	Title      string `db:"title" json:"title"`
	Authors    string `db:"authors" json:"authors"`
	Abstract   string `db:"abstract" json:"abstract"`
	IsHit      bool   `db:"is_hit" json:"is_hit"`
	CapturedAt string `db:"captured_at" json:"captured_at"`
}

// List returns recent events, hits only when hitsOnly is set.
func (s *EventStore) List(ctx context.Context, hitsOnly bool, limit int) ([]EventRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	query := `SELECT id, url, title, authors, abstract, is_hit, captured_at FROM events`
	args := []any{}
	if hitsOnly {
		query += ` WHERE is_hit = ?`
		args = append(args, 1)
	}
	query += ` ORDER BY captured_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.QueryxContext(ctx, s.conn.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, db.ErrSQLiteDisabled) {
			return nil, nil
		}
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		if err := rows.StructScan(&rec); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
