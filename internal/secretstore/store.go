// Package secretstore persists the wallet's encrypted credential and public
// address. A store is a single-writer slot: PutAll never overwrites a key
// that is already present, so an installation holds at most one wallet until
// it is explicitly deleted.
package secretstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// Entry is one key/value pair written by PutAll.
type Entry struct {
	Key   string
	Value []byte
}

type Store interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// PutAll writes every entry or none. It fails with common.ErrAlreadyExists
	// if any key is occupied.
	PutAll(ctx context.Context, entries ...Entry) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func validateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries: %w", common.ErrEmptyInput)
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("empty key: %w", common.ErrEmptyInput)
		}
		if _, dup := seen[e.Key]; dup {
			return fmt.Errorf("duplicate key %q: %w", e.Key, common.ErrAlreadyExists)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}

func storageErr(op string, err error) error {
	return &common.StorageError{Op: op, Err: err}
}
