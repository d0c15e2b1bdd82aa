// Package store persists parsed feed documents keyed by feed identifier.
//
// A [Store] is a flat key/value space: the key is a feed identifier (see
// package ident) and the value is a [feed.Document]. The store knows
// nothing about the subscription outline; keeping the two consistent is
// the catalog's job.
//
// Four backends are provided with identical semantics:
//
//   - [FileStore]: one "<id>.xml" file per document in a directory (default)
//   - [PostgresStore]: a "document" table, via jmoiron/sqlx and lib/pq
//   - [RedisStore]: one key per document, via redis/go-redis
//   - [MongoStore]: one record per document, via the MongoDB driver
//
// [Open] selects a backend from a [Config].
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/feedtree/pkg/feed"
)

// ErrNotFound is returned by Get when no document is stored under an id.
var ErrNotFound = errors.New("document not found")

// Store persists feed documents.
type Store interface {
	// Exists reports whether a document is stored under id.
	Exists(ctx context.Context, id string) (bool, error)

	// Get returns the document stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*feed.Document, error)

	// Put stores doc under id, replacing any previous document.
	Put(ctx context.Context, id string, doc *feed.Document) error

	// Delete removes the document stored under id. Deleting an absent
	// document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored document.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of the Backend* constants. Empty means file.
	Backend string

	// Dir is the FileStore directory (the repository).
	Dir string

	// PostgresDSN is a lib/pq connection string.
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// RedisPrefix is prepended to every document key.
	RedisPrefix string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// ConnectTimeout bounds connection setup for network backends.
	ConnectTimeout time.Duration
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendPostgres:
		s, err = NewPostgresStore(ctx, cfg.PostgresDSN)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
