package blobstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisFieldContentType = "content_type"
	redisFieldData        = "data"
)

// RedisBlobStore keeps one hash per object with the content type and the raw bytes.
type RedisBlobStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBlobStore connects using a redis:// URL and verifies the connection.
func NewRedisBlobStore(ctx context.Context, url string, keyPrefix string) (*RedisBlobStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBlobStore{
		client:    client,
		keyPrefix: keyPrefix,
	}, nil
}

func (r *RedisBlobStore) redisKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return r.client.HSet(ctx, r.redisKey(key),
		redisFieldContentType, contentType,
		redisFieldData, data,
	).Err()
}

func (r *RedisBlobStore) Get(ctx context.Context, key string) (*Object, error) {
	values, err := r.client.HGetAll(ctx, r.redisKey(key)).Result()
	if err != nil {
		return nil, err
	}
	data, ok := values[redisFieldData]
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{
		Key:         key,
		ContentType: values[redisFieldContentType],
		Data:        []byte(data),
	}, nil
}

func (r *RedisBlobStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.redisKey(key)).Err()
}

func (r *RedisBlobStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBlobStore) Close() error {
	return r.client.Close()
}
