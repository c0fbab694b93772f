package secretstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/seedkeeper/internal/filex"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore/migrations"
)

// SQLiteStore is the on-device store. dsn is a file path or any DSN the
// modernc.org/sqlite driver accepts.
type SQLiteStore struct {
	sqlStore
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// runMigrations applies the embedded schema for dialect from dir.
func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, storageErr("open", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageErr("open", fmt.Errorf("db open error: %w", err))
	}
	// A single connection serialises writers and keeps ":memory:" coherent.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, "sqlite3", "sqlite"); err != nil {
		_ = db.Close()
		return nil, storageErr("migrate", err)
	}
	return &SQLiteStore{sqlStore{db: db, placeholder: questionMark}}, nil
}
