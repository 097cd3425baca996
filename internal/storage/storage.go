package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
)

const keyOptions = "options"

// Store wraps BadgerDB for persisting option values.
type Store struct {
	db *badger.DB
}

// Open opens the store in the default database directory.
func Open() (*Store, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the store in a specific directory.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is too chatty for a UCI process

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveOptions stores the current option values.
func (s *Store) SaveOptions(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions returns the persisted option values, or an empty map
// when nothing was saved yet.
func (s *Store) LoadOptions() (map[string]string, error) {
	values := make(map[string]string)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &values)
		})
	})

	return values, err
}
