package blobstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Object is a stored blob together with the content type it was uploaded with.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

type BlobStore interface {
	// Put stores data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrNotFound if no object exists for key.
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
