package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/hospital/internal/platform/db"
)

const recordsTable = "hospital_records"

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// PostgresBackend stores every bucket in the hospital_records table. Save
// replaces a bucket in one transaction using COPY.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects to databaseURL and applies the embedded
// schema migrations.
func NewPostgresBackend(ctx context.Context, databaseURL string, maxConns, minConns int32) (*PostgresBackend, error) {
	pool, err := db.NewPool(ctx, databaseURL, maxConns, minConns)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(postgresMigrations, "migrations/postgres")
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := db.NewMigrator(pool, sub).Up(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate %s: %w", recordsTable, err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Load(ctx context.Context, bucket string) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT line FROM `+recordsTable+` WHERE bucket = $1 ORDER BY seq`, bucket)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", bucket, err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", bucket, err)
	}
	return lines, nil
}

func (b *PostgresBackend) Save(ctx context.Context, bucket string, lines []string) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM `+recordsTable+` WHERE bucket = $1`, bucket); err != nil {
		return fmt.Errorf("clear %s: %w", bucket, err)
	}
	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = []any{bucket, int32(i), line}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{recordsTable}, []string{"bucket", "seq", "line"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy %s: %w", bucket, err)
	}
	return tx.Commit(ctx)
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
