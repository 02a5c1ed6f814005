package storage

import (
	"context"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	game_id     TEXT NOT NULL,
	round       INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	winner      TEXT NOT NULL DEFAULT '',
	moves       INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	PRIMARY KEY (game_id, round)
);
CREATE INDEX IF NOT EXISTS results_finished_at ON results (finished_at);`

type SQLiteStorage struct {
	Connection *sqlx.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// sqlite serializes writers anyway, and ":memory:" databases live in a single connection
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

func (that *SQLiteStorage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}
