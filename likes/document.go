package likes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DocumentStore keeps the like document as one JSON value under a single
// Redis key, mirroring the whole-document contract of the gist backend.
type DocumentStore struct {
	client *redis.Client
	key    string
}

// NewDocumentStore connects to Redis and verifies the connection before
// returning the store.
func NewDocumentStore(cfg Config) (*DocumentStore, error) {
	key := cfg.RedisKey
	if key == "" {
		key = "kudos:likes"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &DocumentStore{client: client, key: key}, nil
}

// Fetch reads and decodes the document. A missing key yields an empty
// document.
func (d *DocumentStore) Fetch(ctx context.Context) (LikeStore, error) {
	raw, err := d.client.Get(ctx, d.key).Result()
	if err == redis.Nil {
		return LikeStore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var all LikeStore
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("decode like document: %w", err)
	}
	if all == nil {
		all = LikeStore{}
	}
	return all, nil
}

// Save rewrites the document in full.
func (d *DocumentStore) Save(ctx context.Context, all LikeStore) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}
	if err := d.client.Set(ctx, d.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the Redis client.
func (d *DocumentStore) Close() error {
	return d.client.Close()
}
