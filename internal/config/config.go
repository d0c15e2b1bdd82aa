// Package config loads feedtree's settings from defaults, configuration
// files and FEEDTREE_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"

	"github.com/matzehuels/feedtree/pkg/catalog"
	"github.com/matzehuels/feedtree/pkg/discovery"
	"github.com/matzehuels/feedtree/pkg/store"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "FEEDTREE"

// Config holds every setting of the feedtree binary.
type Config struct {
	Repository  string `default:"repo" env:"REPOSITORY" hcl:"repository" toml:"repository"`
	OutlineName string `default:"earthreader.opml" env:"OUTLINE_NAME" hcl:"outline_name" toml:"outline_name"`

	StoreBackend    string        `default:"file" env:"STORE" hcl:"store" toml:"store"`
	PostgresDSN     string        `env:"POSTGRES_DSN" hcl:"postgres_dsn" toml:"postgres_dsn"`
	RedisAddr       string        `env:"REDIS_ADDR" hcl:"redis_addr" toml:"redis_addr"`
	RedisPassword   string        `env:"REDIS_PASSWORD" hcl:"redis_password" toml:"redis_password"`
	RedisDB         int           `default:"0" env:"REDIS_DB" hcl:"redis_db" toml:"redis_db"`
	RedisPrefix     string        `default:"feedtree:document:" env:"REDIS_PREFIX" hcl:"redis_prefix" toml:"redis_prefix"`
	MongoURI        string        `env:"MONGO_URI" hcl:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase   string        `default:"feedtree" env:"MONGO_DATABASE" hcl:"mongo_database" toml:"mongo_database"`
	MongoCollection string        `default:"documents" env:"MONGO_COLLECTION" hcl:"mongo_collection" toml:"mongo_collection"`
	ConnectTimeout  time.Duration `default:"10s" env:"CONNECT_TIMEOUT" hcl:"connect_timeout" toml:"connect_timeout"`

	HTTPTimeout time.Duration `default:"30s" env:"HTTP_TIMEOUT" hcl:"http_timeout" toml:"http_timeout"`
	UserAgent   string        `env:"USER_AGENT" hcl:"user_agent" toml:"user_agent"`
	MaxBodySize int64         `default:"16777216" env:"MAX_BODY_SIZE" hcl:"max_body_size" toml:"max_body_size"`

	ListenAddr  string `default:"127.0.0.1:8080" env:"LISTEN_ADDR" hcl:"listen_addr" toml:"listen_addr"`
	RefreshJobs int    `default:"4" env:"REFRESH_JOBS" hcl:"refresh_jobs" toml:"refresh_jobs"`
}

// DefaultFiles returns the configuration files searched when no explicit
// file is given. The first one that exists is used.
func DefaultFiles() []string {
	files := []string{"feedtree.hcl", "feedtree.toml"}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		files = append(files,
			filepath.Join(dir, "feedtree", "config.hcl"),
			filepath.Join(dir, "feedtree", "config.toml"),
		)
	}
	return files
}

// Load reads the configuration. With a non-empty path, only that file is
// read and it must exist; otherwise the first of [DefaultFiles] that
// exists is used, if any.
func Load(path string) (*Config, error) {
	var cfg Config

	files := DefaultFiles()
	if path != "" {
		files = []string{path}
	}

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		EnvPrefix:          EnvPrefix,
		AllowUnknownEnvs:   true,
		Files:              files,
		FailOnFileNotFound: path != "",
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl":  aconfighcl.New(),
			".toml": &tomlDecoder{},
		},
	})
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case store.BackendFile, store.BackendPostgres, store.BackendRedis, store.BackendMongo:
	default:
		return fmt.Errorf("config: unknown store %q", c.StoreBackend)
	}
	if c.Repository == "" {
		return fmt.Errorf("config: repository cannot be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout cannot be negative")
	}
	return nil
}

// Catalog returns the catalog settings.
func (c *Config) Catalog() catalog.Config {
	return catalog.Config{Repository: c.Repository, OutlineName: c.OutlineName}
}

// Store returns the document store settings. The file backend shares the
// repository directory with the outline.
func (c *Config) Store() store.Config {
	return store.Config{
		Backend:         c.StoreBackend,
		Dir:             c.Repository,
		PostgresDSN:     c.PostgresDSN,
		RedisAddr:       c.RedisAddr,
		RedisPassword:   c.RedisPassword,
		RedisDB:         c.RedisDB,
		RedisPrefix:     c.RedisPrefix,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
		ConnectTimeout:  c.ConnectTimeout,
	}
}

// Fetcher returns the HTTP fetcher settings.
func (c *Config) Fetcher() discovery.Options {
	return discovery.Options{
		Timeout:     c.HTTPTimeout,
		UserAgent:   c.UserAgent,
		MaxBodySize: c.MaxBodySize,
	}
}
