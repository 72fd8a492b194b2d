package database

import (
	"context"
	"database/sql"
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreateImage inserts a new image row. The store assigns created_at.
	CreateImage(ctx context.Context, id string, tag string) error
	// GetAllImages returns every image ordered newest first.
	GetAllImages(ctx context.Context) ([]*Image, error)
	// GetRandomImageByTag returns one image with exactly the given tag, or nil if there is none.
	GetRandomImageByTag(ctx context.Context, tag string) (*Image, error)
}
