package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerInMemory = ":memory:"

type badgerRecord struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// BadgerBlobStore is an embedded key-value blob store. Each value is a JSON
// record holding the content type next to the bytes.
type BadgerBlobStore struct {
	db *badger.DB
}

// NewBadgerBlobStore opens a store in dir, or an in-memory one for ":memory:".
func NewBadgerBlobStore(dir string) (*BadgerBlobStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == badgerInMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerBlobStore{db: db}, nil
}

func (b *BadgerBlobStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	value, err := json.Marshal(badgerRecord{ContentType: contentType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal blob record: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerBlobStore) Get(_ context.Context, key string) (*Object, error) {
	var record badgerRecord
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if record.Data == nil {
		record.Data = []byte{}
	}
	return &Object{Key: key, ContentType: record.ContentType, Data: record.Data}, nil
}

func (b *BadgerBlobStore) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerBlobStore) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

func (b *BadgerBlobStore) Close() error {
	return b.db.Close()
}
