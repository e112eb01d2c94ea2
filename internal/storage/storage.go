package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyOptions = "options"
)

// Options are the engine settings that survive restarts.
type Options struct {
	HashMB   int           `json:"hash_mb"`
	Threads  int           `json:"threads"`
	MoveTime time.Duration `json:"move_time"`
	OwnBook  bool          `json:"own_book"`
	SavedAt  time.Time     `json:"saved_at"`
}

// DefaultOptions returns the settings used when nothing was saved.
func DefaultOptions() *Options {
	return &Options{
		HashMB:   32,
		Threads:  1,
		MoveTime: 5 * time.Second,
		OwnBook:  true,
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir, or in the default database directory
// when dir is empty.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	log.Debug().Str("dir", dir).Msg("storage opened")
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOptions saves the engine options
func (s *Storage) SaveOptions(opts *Options) error {
	opts.SavedAt = time.Now()

	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
	if err != nil {
		return fmt.Errorf("save options: %w", err)
	}

	log.Debug().RawJSON("options", data).Msg("options saved")
	return nil
}

// LoadOptions loads the engine options, returns defaults if none were saved
func (s *Storage) LoadOptions() (*Options, error) {
	opts := DefaultOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, opts)
		})
	})
	if err != nil {
		return DefaultOptions(), fmt.Errorf("load options: %w", err)
	}

	log.Debug().
		Int("hash_mb", opts.HashMB).
		Int("threads", opts.Threads).
		Dur("move_time", opts.MoveTime).
		Bool("own_book", opts.OwnBook).
		Msg("options loaded")
	return opts, nil
}

// ClearOptions removes any saved options.
func (s *Storage) ClearOptions() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyOptions))
	})
}
