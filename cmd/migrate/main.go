package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"summit-abstract-miner/config"
	"summit-abstract-miner/db"
	"summit-abstract-miner/db/migrations"
	appfx "summit-abstract-miner/internal/app/fx"

	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type MigrateCmd string

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		fx.Supply(MigrateCmd(cmd)),
		fx.Invoke(registerMigrateHook),
	)

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type migrateHookParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    config.Config
	Logger *zap.SugaredLogger

	Cmd MigrateCmd
}

func registerMigrateHook(p migrateHookParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := goose.SetDialect("sqlite3"); err != nil {
				return fmt.Errorf("set goose dialect: %w", err)
			}

			goose.SetBaseFS(migrations.FS)

			path := strings.TrimSpace(p.Cfg.SQLitePath)
			if path == "" {
				return errors.New("sqlite disabled: set SQLITE_PATH")
			}

			sqliteDB, err := db.OpenLocal(path)
			if err != nil {
				return fmt.Errorf("open sqlite: %w", err)
			}
			defer func() {
				_ = sqliteDB.Close()
			}()

			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			defer pingCancel()
			if err := sqliteDB.PingContext(pingCtx); err != nil {
				return fmt.Errorf("ping sqlite: %w", err)
			}

			p.Logger.Infow("goose_run_start", "cmd", string(p.Cmd), "path", path)
			if err := goose.RunContext(ctx, string(p.Cmd), sqliteDB.DB, "."); err != nil {
				return fmt.Errorf("goose run %q: %w", p.Cmd, err)
			}
			p.Logger.Infow("goose_run_done", "cmd", string(p.Cmd))
			return nil
		},
	})
}
