package config

import (
	"fmt"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *Config) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *Config) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithContentModel sets the content model file
func WithContentModel(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return fmt.Errorf("content model path cannot be empty")
		}
		c.ContentModelPath = path
		return nil
	}
}

// WithoutCache disables caching
func WithoutCache() Option {
	return func(c *Config) error {
		c.CacheBackend = CacheNone
		return nil
	}
}

// WithMemoryCache uses the in-memory cache
func WithMemoryCache() Option {
	return func(c *Config) error {
		c.CacheBackend = CacheMemory
		return nil
	}
}

// WithFilesystemCache stores cache entries under dir
func WithFilesystemCache(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fmt.Errorf("filesystem cache directory cannot be empty")
		}
		c.CacheBackend = CacheFS
		c.CacheDir = dir
		return nil
	}
}

// WithS3Cache stores cache entries in an S3 bucket
func WithS3Cache(s3 S3Config) Option {
	return func(c *Config) error {
		if s3.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if s3.Region == "" {
			s3.Region = "us-east-1"
		}
		c.CacheBackend = CacheS3
		c.S3 = s3
		return nil
	}
}

// WithPostgresCache stores cache entries in Postgres
func WithPostgresCache(url, schema string) Option {
	return func(c *Config) error {
		if url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.CacheBackend = CachePostgres
		c.DatabaseURL = url
		if schema != "" {
			c.DBSchema = schema
		}
		return nil
	}
}

// WithCacheLifetime sets how long fetched content stays cached
func WithCacheLifetime(lifetime time.Duration) Option {
	return func(c *Config) error {
		if lifetime < 0 {
			return fmt.Errorf("cache lifetime cannot be negative, got: %s", lifetime)
		}
		c.CacheLifetime = lifetime
		return nil
	}
}

// WithMetrics enables cache metrics under the given namespace
func WithMetrics(namespace string) Option {
	return func(c *Config) error {
		c.MetricsEnabled = true
		if namespace != "" {
			c.MetricsNamespace = namespace
		}
		return nil
	}
}
