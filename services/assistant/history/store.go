// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history persists query and response pairs in BadgerDB so prior
// turns can feed the model-assisted conversion prompt.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// keyPrefix namespaces history entries inside the database.
const keyPrefix = "history/"

// Entry is one recorded exchange.
type Entry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is a BadgerDB-backed conversation history.
//
// # Description
//
//	Keys embed a zero-padded unix-nano timestamp so lexical key order is
//	chronological; Recent iterates in reverse to return the newest
//	entries first. An empty directory selects an in-memory database,
//	which is also what tests use.
//
// # Thread Safety
//
// Safe for concurrent use; Badger transactions provide isolation.
type Store struct {
	db *badger.DB
}

// Open opens or creates the history database.
//
// # Inputs
//
//   - dir: Database directory. Empty selects an in-memory database.
//
// # Outputs
//
//   - *Store: The opened store. Callers own Close.
//   - error: Non-nil if the database cannot be opened.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: opening database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one exchange.
//
// # Outputs
//
//   - Entry: The stored entry with its generated ID and timestamp.
//   - error: Non-nil if the write fails.
func (s *Store) Append(query, response string) (Entry, error) {
	entry := Entry{
		ID:        uuid.NewString(),
		Query:     query,
		Response:  response,
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("history: marshaling entry: %w", err)
	}

	key := fmt.Sprintf("%s%020d/%s", keyPrefix, entry.Timestamp.UnixNano(), entry.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("history: writing entry: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the end of the prefix range.
		seek := append([]byte(keyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(keyPrefix)) && len(out) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return fmt.Errorf("history: decoding entry: %w", err)
				}
				out = append(out, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes every history entry.
func (s *Store) Clear() error {
	return s.db.DropPrefix([]byte(keyPrefix))
}
