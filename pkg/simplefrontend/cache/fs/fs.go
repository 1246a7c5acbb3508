package fs

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

// Each cache file starts with an 8-byte big-endian unix-nano expiry (0 = never)
// followed by the cached value.
const headerSize = 8

// Backend is a filesystem implementation of the simplefrontend.CacheStore interface
type Backend struct {
	baseDir string
	now     func() time.Time
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for cache files
}

// New creates a new filesystem cache backend
func New(config Config) (simplefrontend.CacheStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir: config.BaseDir,
		now:     time.Now,
	}, nil
}

// path shards files by a hash of the key so arbitrary keys map to safe file names.
func (b *Backend) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(b.baseDir, name[:2], name[2:])
}

// Get reads a cache file, removing it when expired
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	filePath := b.path(key)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, simplefrontend.ErrCacheMiss
	} else if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) < headerSize {
		slog.Warn("Removing corrupt cache file", "path", filePath)
		_ = os.Remove(filePath)
		return nil, simplefrontend.ErrCacheMiss
	}

	expiresAt := int64(binary.BigEndian.Uint64(data[:headerSize]))
	if expiresAt != 0 && b.now().UnixNano() >= expiresAt {
		_ = os.Remove(filePath)
		return nil, simplefrontend.ErrCacheMiss
	}
	return data[headerSize:], nil
}

// Set writes the value to a temporary file and renames it into place
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	filePath := b.path(key)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = b.now().Add(ttl).UnixNano()
	}
	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf[:headerSize], uint64(expiresAt))
	copy(buf[headerSize:], value)

	tmpPath := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, buf, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}

// Has reports whether an unexpired cache file exists
func (b *Backend) Has(ctx context.Context, key string) (bool, error) {
	_, err := b.Get(ctx, key)
	if errors.Is(err, simplefrontend.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a cache file
func (b *Backend) Delete(ctx context.Context, key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}
