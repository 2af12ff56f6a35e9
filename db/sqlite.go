package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"summit-abstract-miner/config"

	_ "modernc.org/sqlite"
)

var ErrSQLiteDisabled = errors.New("sqlite disabled: set SQLITE_PATH")

// Conn is the narrow surface stores need. When SQLite is disabled it is
// backed by a connector that fails fast with ErrSQLiteDisabled, so the app
// still boots and callers can decide to skip persistence.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	Rebind(query string) string
}

// --- disabled connection ---

type sqliteErrConnector struct{}

func (sqliteErrConnector) Connect(context.Context) (driver.Conn, error) {
	return nil, ErrSQLiteDisabled
}
func (sqliteErrConnector) Driver() driver.Driver { return sqliteErrDriver{} }

type sqliteErrDriver struct{}

func (sqliteErrDriver) Open(string) (driver.Conn, error) { return nil, ErrSQLiteDisabled }

type disabledSQLiteConn struct {
	x *sqlx.DB
}

func newDisabledSQLiteConn() disabledSQLiteConn {
	return disabledSQLiteConn{x: sqlx.NewDb(sql.OpenDB(sqliteErrConnector{}), "sqlite")}
}

func (c disabledSQLiteConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, ErrSQLiteDisabled
}
func (c disabledSQLiteConn) QueryxContext(context.Context, string, ...any) (*sqlx.Rows, error) {
	return nil, ErrSQLiteDisabled
}
func (c disabledSQLiteConn) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return c.x.QueryRowxContext(ctx, query, args...)
}
func (c disabledSQLiteConn) Rebind(query string) string { return c.x.Rebind(query) }

// OpenLocal opens the local events database with the pragmas a single-writer
// scraper wants. Shared by the fx provider and the one-shot CLIs.
func OpenLocal(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", localDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// modernc sqlite serializes writes; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)
	db.Mapper = reflectx.NewMapperFunc("json", strings.ToLower)

	return db, nil
}

func localDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// --- Fx output ---

type SQLiteSQLXOut struct {
	fx.Out

	DB   *sqlx.DB `name:"sqlite"`
	Conn Conn     `name:"sqlite"`
}

type NewSQLXSQLiteDBParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    config.Config
	Logger *zap.SugaredLogger
}

// NewSQLXSQLiteDB provides the local events store, or the disabled conn when
// SQLITE_PATH is unset.
func NewSQLXSQLiteDB(p NewSQLXSQLiteDBParams) (SQLiteSQLXOut, error) {
	path := strings.TrimSpace(p.Cfg.SQLitePath)
	if path == "" {
		p.Logger.Infow("sqlite_disabled")
		return SQLiteSQLXOut{DB: nil, Conn: newDisabledSQLiteConn()}, nil
	}

	db, err := OpenLocal(path)
	if err != nil {
		return SQLiteSQLXOut{}, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				_ = db.Close()
				return fmt.Errorf("sqlite ping failed: %w", err)
			}
			p.Logger.Infow("sqlite_connected", "path", path)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				p.Logger.Warnw("sqlite close failed", "err", err)
			}
			return nil
		},
	})

	return SQLiteSQLXOut{DB: db, Conn: db}, nil
}
