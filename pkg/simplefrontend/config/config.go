package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	fscache "github.com/tendant/simple-frontend/pkg/simplefrontend/cache/fs"
	memorycache "github.com/tendant/simple-frontend/pkg/simplefrontend/cache/memory"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/cache/metrics"
	pgcache "github.com/tendant/simple-frontend/pkg/simplefrontend/cache/postgres"
	s3cache "github.com/tendant/simple-frontend/pkg/simplefrontend/cache/s3"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// Cache backends
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheFS       = "fs"
	CacheS3       = "s3"
	CachePostgres = "postgres"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Port:             "8080",
		Environment:      "development",
		ContentModelPath: "content-model.yaml",
		CacheBackend:     CacheMemory,
		CacheLifetime:    simplefrontend.DefaultCacheLifetime,
		DBSchema:         "public",
		MetricsNamespace: "simple_frontend",
	}
}

// Config represents configuration for the simple-frontend service
type Config struct {
	Port        string
	Environment string // development, production, testing

	// Content model file (YAML)
	ContentModelPath string

	// Cache configuration
	CacheBackend  string // "none", "memory", "fs", "s3", "postgres"
	CacheLifetime time.Duration
	CacheDir      string   // fs backend
	S3            S3Config // s3 backend
	DatabaseURL   string   // postgres backend
	DBSchema      string   // Postgres schema holding the cache table (default: public)

	// Metrics
	MetricsEnabled   bool
	MetricsNamespace string

	metrics *metrics.Metrics
}

// S3Config holds the S3 cache backend settings
type S3Config struct {
	Bucket                 string
	Region                 string
	Prefix                 string
	Endpoint               string
	AccessKeyID            string
	SecretAccessKey        string
	UsePathStyle           bool
	CreateBucketIfNotExist bool
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.CacheLifetime < 0 {
		return errors.New("cache_lifetime cannot be negative")
	}

	switch c.CacheBackend {
	case CacheNone, CacheMemory:
	case CacheFS:
		if c.CacheDir == "" {
			return errors.New("cache_dir is required when using the fs cache")
		}
	case CacheS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using the s3 cache")
		}
	case CachePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using the postgres cache")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", c.CacheBackend)
	}

	return nil
}

// Metrics returns the cache metrics, or nil when metrics are disabled.
func (c *Config) Metrics() *metrics.Metrics {
	if !c.MetricsEnabled {
		return nil
	}
	if c.metrics == nil {
		c.metrics = metrics.New(c.MetricsNamespace)
	}
	return c.metrics
}

// LoadContentModel reads the configured content model file
func (c *Config) LoadContentModel() (*contentmodel.ContentModel, error) {
	if c.ContentModelPath == "" {
		return nil, errors.New("content model path is required")
	}
	return contentmodel.LoadFile(c.ContentModelPath)
}

// BuildCacheStore creates the configured CacheStore, instrumented when metrics are enabled
func (c *Config) BuildCacheStore(ctx context.Context) (simplefrontend.CacheStore, error) {
	store, err := c.buildCacheStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s cache: %w", c.CacheBackend, err)
	}
	slog.Info("Cache store ready", "backend", c.CacheBackend, "lifetime", c.CacheLifetime)

	if m := c.Metrics(); m != nil {
		return m.Wrap(c.CacheBackend, store), nil
	}
	return store, nil
}

func (c *Config) buildCacheStore(ctx context.Context) (simplefrontend.CacheStore, error) {
	switch c.CacheBackend {
	case CacheNone:
		return simplefrontend.NewNoopCacheStore(), nil

	case CacheMemory:
		return memorycache.New(), nil

	case CacheFS:
		return fscache.New(fscache.Config{BaseDir: c.CacheDir})

	case CacheS3:
		return s3cache.New(s3cache.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			Prefix:                 c.S3.Prefix,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})

	case CachePostgres:
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		store, err := pgcache.NewWithPool(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", c.CacheBackend)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres with the configured schema.
func PingPostgres(ctx context.Context, databaseURL, schema string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := newPool(ctx, databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
