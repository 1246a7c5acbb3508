package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got: %s", cfg.Port)
	}
	if cfg.CacheBackend != CacheMemory {
		t.Errorf("expected memory cache, got: %s", cfg.CacheBackend)
	}
	if cfg.CacheLifetime != simplefrontend.DefaultCacheLifetime {
		t.Errorf("expected default cache lifetime, got: %s", cfg.CacheLifetime)
	}
	if cfg.Metrics() != nil {
		t.Error("expected metrics to be disabled by default")
	}
}

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}

	if _, err := Load(WithPort("")); err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got: %s", cfg.Environment)
	}
}

func TestCacheOptions(t *testing.T) {
	tests := []struct {
		name        string
		opt         Option
		wantBackend string
		wantError   bool
	}{
		{"none", WithoutCache(), CacheNone, false},
		{"memory", WithMemoryCache(), CacheMemory, false},
		{"filesystem", WithFilesystemCache("/tmp/cache"), CacheFS, false},
		{"filesystem missing dir", WithFilesystemCache(""), "", true},
		{"s3", WithS3Cache(S3Config{Bucket: "site-cache"}), CacheS3, false},
		{"s3 missing bucket", WithS3Cache(S3Config{}), "", true},
		{"postgres", WithPostgresCache("postgresql://localhost/site", "cache"), CachePostgres, false},
		{"postgres missing url", WithPostgresCache("", ""), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.opt)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.CacheBackend != tt.wantBackend {
				t.Errorf("expected backend %q, got %q", tt.wantBackend, cfg.CacheBackend)
			}
		})
	}
}

func TestWithS3CacheDefaultsRegion(t *testing.T) {
	cfg, err := Load(WithS3Cache(S3Config{Bucket: "site-cache"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("expected region us-east-1, got %q", cfg.S3.Region)
	}
}

func TestWithCacheLifetime(t *testing.T) {
	cfg, err := Load(WithCacheLifetime(5 * time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheLifetime != 5*time.Minute {
		t.Errorf("expected 5m, got %s", cfg.CacheLifetime)
	}

	if _, err := Load(WithCacheLifetime(-time.Second)); err == nil {
		t.Error("expected error for negative lifetime, got nil")
	}
}

func TestWithMetrics(t *testing.T) {
	cfg, err := Load(WithMetrics("site"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MetricsNamespace != "site" {
		t.Errorf("expected namespace site, got %q", cfg.MetricsNamespace)
	}
	m := cfg.Metrics()
	if m == nil {
		t.Fatal("expected metrics to be enabled")
	}
	if cfg.Metrics() != m {
		t.Error("expected metrics to be created once")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := defaults()
	cfg.CacheBackend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend, got nil")
	}
}

func TestBuildCacheStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		opt  Option
	}{
		{"none", WithoutCache()},
		{"memory", WithMemoryCache()},
		{"filesystem", WithFilesystemCache(filepath.Join(dir, "cache"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.opt, WithMetrics("build_test"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			store, err := cfg.BuildCacheStore(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := store.Set(ctx, "news.1", []byte("x"), time.Minute); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadContentModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	body := "content_types:\n  news:\n    api_endpoint: /posts\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithContentModel(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, err := cfg.LoadContentModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !model.HasContentType("news") {
		t.Error("expected news content type")
	}

	if _, err := Load(WithContentModel("")); err == nil {
		t.Error("expected error for empty content model path, got nil")
	}
}
