package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clientspot/clientspot/backend/internal/storage/pg/migrations"
	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/logger"
	sharedpg "github.com/clientspot/clientspot/shared/storage/pg"
	"github.com/pressly/goose/v3"
)

const opTimeout = 5 * time.Second

type Storage struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// New connects to Postgres and applies the embedded migrations.
func New(ctx context.Context, cfg config.Pg, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return sharedpg.WithTx(ctx, s.db, fn)
}
