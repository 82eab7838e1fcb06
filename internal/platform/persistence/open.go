package persistence

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	KindFile     = "file"
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Backend is the method set shared by every backend in this package.
type Backend interface {
	Load(ctx context.Context, bucket string) ([]string, error)
	Save(ctx context.Context, bucket string, lines []string) error
	Close() error
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
	_ Backend = (*PostgresBackend)(nil)
)

// Options selects and configures a backend.
type Options struct {
	Kind        string
	DataDir     string
	SQLitePath  string
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
}

// Open constructs the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewFileBackend(opts.DataDir)
	case KindMemory:
		return NewMemoryBackend(), nil
	case KindSQLite:
		return NewSQLiteBackend(opts.SQLitePath)
	case KindPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires a database url")
		}
		return NewPostgresBackend(ctx, opts.DatabaseURL, opts.MaxConns, opts.MinConns)
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
}

// Known reports whether kind names a backend.
func Known(kind string) bool {
	switch kind {
	case KindFile, KindMemory, KindSQLite, KindPostgres:
		return true
	}
	return false
}
