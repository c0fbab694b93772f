package secretstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps the slot in a PostgreSQL database, for deployments
// that run the keeper as a service.
type PostgresStore struct {
	sqlStore
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, storageErr("open", fmt.Errorf("db open error: %w", err))
	}
	return newPostgresStore(ctx, db)
}

func newPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if err := runMigrations(ctx, db, "pgx", "postgres"); err != nil {
		_ = db.Close()
		return nil, storageErr("migrate", err)
	}
	return &PostgresStore{sqlStore{db: db, placeholder: dollar}}, nil
}
