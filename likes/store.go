package likes

import (
	"context"
	"errors"
)

// Store persists the complete like document. Fetch returns an empty map
// when no document exists yet; Save rewrites the document in full.
//
// There is no optimistic concurrency: two clients toggling at the same
// time each fetch, mutate, and save, and the last save wins. At blog
// traffic the overlap window is tiny and the cost is one lost like, so
// the race is accepted rather than serialized.
type Store interface {
	Fetch(ctx context.Context) (LikeStore, error)
	Save(ctx context.Context, all LikeStore) error
	Close() error
}

// ErrUnavailable marks a backend that could not be reached or answered
// with a failure other than a missing document.
var ErrUnavailable = errors.New("likes: store unavailable")

// Config selects and configures a Store backend.
type Config struct {
	GistToken    string // gist backend, together with GistID
	GistID       string
	GistFilename string // file inside the gist (default "likes.json")

	RedisAddr     string // document backend
	RedisPassword string
	RedisDB       int
	RedisKey      string // key holding the document (default "kudos:likes")

	LocalDBPath string // local SQLite backend
}

// NewStore selects a backend by credential presence: the gist API first,
// then Redis, then the local database. It returns a nil Store without
// error when nothing is configured; the service then runs with likes
// disabled.
func NewStore(cfg Config) (Store, error) {
	switch {
	case cfg.GistToken != "" && cfg.GistID != "":
		return NewGistStore(cfg.GistToken, cfg.GistID, cfg.GistFilename), nil
	case cfg.RedisAddr != "":
		return NewDocumentStore(cfg)
	case cfg.LocalDBPath != "":
		return NewLocalStore(cfg.LocalDBPath)
	}
	return nil, nil
}
