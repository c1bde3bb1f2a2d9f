package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=none memory file sqlite redis mongo"`

	// Dir is the FileCache directory and the default home of the SQLite
	// database. Empty means DefaultDir().
	Dir string `toml:"dir" yaml:"dir"`

	// Path is the SQLite database file (default <Dir>/cache.db).
	Path string `toml:"path" yaml:"path"`

	// URL is the Redis or MongoDB connection string.
	URL string `toml:"url" yaml:"url" validate:"omitempty,url"`

	// Database and Collection name the MongoDB collection
	// (default bpmnlayout.cache).
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`

	// MaxEntries bounds the memory backend.
	MaxEntries int `toml:"max_entries" yaml:"max_entries" validate:"gte=0"`

	// Compress stores values snappy-compressed.
	Compress bool `toml:"compress" yaml:"compress"`
}

// Open builds the configured cache, wrapped for compression if requested
// and instrumented with cache hooks. An empty backend means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch strings.ToLower(opts.Backend) {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		c = NewMemoryCache(opts.MaxEntries)
	case BackendFile:
		dir, derr := opts.dir()
		if derr != nil {
			return nil, derr
		}
		c, err = NewFileCache(dir)
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			dir, derr := opts.dir()
			if derr != nil {
				return nil, derr
			}
			path = filepath.Join(dir, "cache.db")
		}
		c, err = NewSQLiteCache(path)
	case BackendRedis:
		if opts.URL == "" {
			return nil, fmt.Errorf("redis cache: url is required")
		}
		c, err = NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		if opts.URL == "" {
			return nil, fmt.Errorf("mongo cache: url is required")
		}
		db, coll := opts.Database, opts.Collection
		if db == "" {
			db = "bpmnlayout"
		}
		if coll == "" {
			coll = "cache"
		}
		c, err = NewMongoCache(ctx, opts.URL, db, coll)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", opts.Backend, err)
	}
	if opts.Compress {
		c = Compressed(c)
	}
	return Instrumented(c), nil
}

func (o Options) dir() (string, error) {
	if o.Dir != "" {
		return o.Dir, nil
	}
	return DefaultDir()
}
