package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyAnalysisPrefix = "analysis/"
)

// ErrNotFound is returned when no analysis is recorded for a position.
var ErrNotFound = errors.New("storage: analysis not found")

// Analysis is one finished search, as reported to the operator.
type Analysis struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Score      int           `json:"score"`
	BestMove   string        `json:"best_move"`
	PV         []string      `json:"pv"`
	SAN        []string      `json:"san,omitempty"` // PV in algebraic notation
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Storage wraps BadgerDB for the analysis journal
type Storage struct {
	db *badger.DB
}

// Open opens the journal stored in dir. An empty dir keeps the journal in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func analysisKey(fen string) []byte {
	return []byte(keyAnalysisPrefix + fen)
}

// RecordAnalysis stores a, replacing any earlier analysis of the same position.
// A zero RecordedAt is set to the current time.
func (s *Storage) RecordAnalysis(a *Analysis) error {
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(a.FEN), data)
	})
}

// LoadAnalysis returns the analysis recorded for fen, or ErrNotFound.
func (s *Storage) LoadAnalysis(fen string) (*Analysis, error) {
	var a Analysis

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(fen))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, fen)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// Analyses returns every recorded analysis in key order.
func (s *Storage) Analyses() ([]*Analysis, error) {
	var out []*Analysis

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyAnalysisPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			a := new(Analysis)
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, a)
			})
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})

	return out, err
}

// Forget removes the analysis recorded for fen. Missing entries are not an error.
func (s *Storage) Forget(fen string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(analysisKey(fen))
	})
}
