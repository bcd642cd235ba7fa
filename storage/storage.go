// Package storage persists finished games.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"powerchess/experiments/metrics"

	"github.com/dgraph-io/badger/v4"
)

const gamePrefix = "game/"

var ErrGameNotFound = errors.New("game not found")

// GameRecord is a finished game with the metrics of every move.
type GameRecord struct {
	metrics.GameMetric
	Moves []metrics.MoveMetric `json:"moves"`
}

// Store wraps BadgerDB, one JSON value per game keyed by the game id.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a store that is lost on Close.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) SaveGame(record GameRecord) error {
	if record.ID == "" {
		return errors.New("game record without id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gamePrefix+record.ID), data)
	})
}

func (s *Store) Game(id string) (GameRecord, error) {
	var record GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	return record, err
}

// Games returns every stored game ordered by id.
func (s *Store) Games() ([]GameRecord, error) {
	var records []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("game %s: %w", it.Item().Key(), err)
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}
