package blobstore

import (
	"context"
	"fmt"
	"log/slog"
)

const DefaultKeyPrefix = "blob:"

func NewBlobStore(ctx context.Context, storeType, connectionString, keyPrefix string) (store BlobStore, err error) {
	switch storeType {
	case "sqlite":
		store, err = NewSQLiteBlobStore(connectionString)
	case "redis":
		if keyPrefix == "" {
			keyPrefix = DefaultKeyPrefix
		}
		store, err = NewRedisBlobStore(ctx, connectionString, keyPrefix)
	case "badger":
		store, err = NewBadgerBlobStore(connectionString)
	default:
		return nil, fmt.Errorf("unsupported blob store type: %s", storeType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s blob store: %w", storeType, err)
	}

	slog.Info("blob store initialized", "type", storeType)
	return store, nil
}
