package blobstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jo-hoe/taggallery/internal/backend/database"
	_ "modernc.org/sqlite"
)

type SQLiteBlobStore struct {
	db *sql.DB
}

func NewSQLiteBlobStore(connectionString string) (*SQLiteBlobStore, error) {
	db, err := sql.Open("sqlite", database.SQLiteConnectionString(connectionString))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteBlobStore{db: db}, nil
}

func (s *SQLiteBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO blobs (key, content_type, data) VALUES (?, ?, ?)", key, contentType, data)
	return err
}

func (s *SQLiteBlobStore) Get(ctx context.Context, key string) (*Object, error) {
	obj := Object{Key: key}
	row := s.db.QueryRowContext(ctx, "SELECT content_type, data FROM blobs WHERE key = ?", key)
	if err := row.Scan(&obj.ContentType, &obj.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &obj, nil
}

func (s *SQLiteBlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key)
	return err
}

func (s *SQLiteBlobStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}
