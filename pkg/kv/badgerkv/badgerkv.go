// Package badgerkv is the embedded kv.Store driver backed by BadgerDB.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

// Store wraps a BadgerDB instance as a kv.Store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a persistent database under path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("badgerkv: path is required")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("badgerkv: create directory %s: %w", path, err)
	}
	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&zapAdapter{s: logger.Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badgerkv: get %s: %w", key, err)
	}
	return out, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badgerkv: put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// zapAdapter satisfies badger.Logger.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (a *zapAdapter) Errorf(format string, args ...interface{})   { a.s.Errorf(format, args...) }
func (a *zapAdapter) Warningf(format string, args ...interface{}) { a.s.Warnf(format, args...) }
func (a *zapAdapter) Infof(format string, args ...interface{})    { a.s.Debugf(format, args...) }
func (a *zapAdapter) Debugf(format string, args ...interface{})   { a.s.Debugf(format, args...) }
