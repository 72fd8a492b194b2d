package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", SQLiteConnectionString(connectionString))
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" would open its own empty database.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	// created_at keeps millisecond precision; rowid breaks ties in insertion order.
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		tag TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_images_tag ON images (tag)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.PingContext(ctx)
	return err == nil
}

func (s *SQLiteDatabase) CreateImage(ctx context.Context, id string, tag string) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO images (id, tag) VALUES (?, ?)", id, tag)
	return err
}

func (s *SQLiteDatabase) GetAllImages(ctx context.Context) ([]*Image, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, tag, created_at FROM images ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	images := []*Image{}
	for rows.Next() {
		img, err := scanSQLiteImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *SQLiteDatabase) GetRandomImageByTag(ctx context.Context, tag string) (*Image, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, tag, created_at FROM images WHERE tag = ? ORDER BY RANDOM() LIMIT 1", tag)
	img, err := scanSQLiteImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteImage(row rowScanner) (*Image, error) {
	var img Image
	var createdAt string
	if err := row.Scan(&img.ID, &img.Tag, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q for image %s: %w", createdAt, img.ID, err)
	}
	img.CreatedAt = parsed
	return &img, nil
}
