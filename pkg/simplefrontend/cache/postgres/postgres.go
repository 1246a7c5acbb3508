package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

// DefaultTable is the table cache entries are stored in
const DefaultTable = "frontend_cache"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Backend implements simplefrontend.CacheStore using PostgreSQL
type Backend struct {
	db    DBTX
	table string
	now   func() time.Time
}

// Option configures a Backend
type Option func(*Backend)

// WithTable stores entries in the given table, optionally schema qualified
// ("schema.table").
func WithTable(table string) Option {
	return func(b *Backend) {
		b.table = table
	}
}

// New creates a new PostgreSQL cache backend
func New(db DBTX, opts ...Option) (*Backend, error) {
	b := &Backend{db: db, table: DefaultTable, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if err := validateTable(b.table); err != nil {
		return nil, err
	}
	return b, nil
}

// NewWithPool creates a new PostgreSQL cache backend with connection pool
func NewWithPool(pool *pgxpool.Pool, opts ...Option) (*Backend, error) {
	return New(pool, opts...)
}

func validateTable(table string) error {
	if table == "" {
		return errors.New("table name is required")
	}
	schema, name, qualified := strings.Cut(table, ".")
	if !qualified {
		name = table
	} else if !identifierPattern.MatchString(schema) {
		return fmt.Errorf("invalid schema name %q", schema)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// Error handling helper
func (b *Backend) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - run EnsureSchema or apply the migration")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// EnsureSchema creates the cache table when it does not exist
func (b *Backend) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			expires_at TIMESTAMPTZ NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, b.table)
	if _, err := b.db.Exec(ctx, query); err != nil {
		return b.handlePostgresError("ensure schema", err)
	}
	return nil
}

// Get returns an unexpired value
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`
		SELECT value FROM %s
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`, b.table)

	var value []byte
	err := b.db.QueryRow(ctx, query, key, b.now()).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplefrontend.ErrCacheMiss
		}
		return nil, b.handlePostgresError("get cache entry", err)
	}
	return value, nil
}

// Set upserts a value
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`, b.table)

	now := b.now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}
	if value == nil {
		value = []byte{}
	}

	if _, err := b.db.Exec(ctx, query, key, value, expiresAt, now); err != nil {
		return b.handlePostgresError("set cache entry", err)
	}
	return nil
}

// Has reports whether an unexpired value exists
func (b *Backend) Has(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
		)`, b.table)

	var exists bool
	if err := b.db.QueryRow(ctx, query, key, b.now()).Scan(&exists); err != nil {
		return false, b.handlePostgresError("check cache entry", err)
	}
	return exists, nil
}

// Delete removes a value
func (b *Backend) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, b.table)
	if _, err := b.db.Exec(ctx, query, key); err != nil {
		return b.handlePostgresError("delete cache entry", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed
func (b *Backend) Purge(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= $1`, b.table)
	tag, err := b.db.Exec(ctx, query, b.now())
	if err != nil {
		return 0, b.handlePostgresError("purge cache", err)
	}
	return tag.RowsAffected(), nil
}
