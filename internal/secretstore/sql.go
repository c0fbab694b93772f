package secretstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/dbx"
)

var errClosed = errors.New("store is closed")

// sqlStore implements Store over database/sql. The only difference between
// dialects is the placeholder syntax.
type sqlStore struct {
	db          *sql.DB
	placeholder func(n int) string
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	q := `SELECT value FROM secrets WHERE key = ` + s.placeholder(1)
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, storageErr("get", fmt.Errorf("failed to get secret[%s]: %w", key, err))
	}
	return value, nil
}

func (s *sqlStore) PutAll(ctx context.Context, entries ...Entry) error {
	if err := validateEntries(entries); err != nil {
		return storageErr("put", err)
	}

	selectQ := `SELECT 1 FROM secrets WHERE key = ` + s.placeholder(1)
	insertQ := `INSERT INTO secrets (key, value) VALUES (` + s.placeholder(1) + `, ` + s.placeholder(2) + `)`

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range entries {
			var one int
			err := tx.QueryRowContext(ctx, selectQ, e.Key).Scan(&one)
			switch {
			case err == nil:
				return fmt.Errorf("key %s: %w", e.Key, common.ErrAlreadyExists)
			case !errors.Is(err, sql.ErrNoRows):
				return fmt.Errorf("failed to check secret[%s]: %w", e.Key, err)
			}
			if _, err := tx.ExecContext(ctx, insertQ, e.Key, e.Value); err != nil {
				return fmt.Errorf("failed to insert secret[%s]: %w", e.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("put", err)
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	q := `DELETE FROM secrets WHERE key = ` + s.placeholder(1)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, q, k); err != nil {
				return fmt.Errorf("failed to delete secret[%s]: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("delete", err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
