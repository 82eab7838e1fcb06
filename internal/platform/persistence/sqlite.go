package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteBackend stores every bucket in a single records table keyed by
// bucket and line position. Save replaces a bucket inside one transaction.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (or creates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		path = "hospital.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		bucket TEXT NOT NULL,
		seq    INTEGER NOT NULL,
		line   TEXT NOT NULL,
		PRIMARY KEY (bucket, seq)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context, bucket string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT line FROM records WHERE bucket = ? ORDER BY seq`, bucket)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", bucket, err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan %s: %w", bucket, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (b *SQLiteBackend) Save(ctx context.Context, bucket string, lines []string) (retErr error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("clear %s: %w", bucket, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (bucket, seq, line) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, bucket, i, line); err != nil {
			return fmt.Errorf("insert %s line %d: %w", bucket, i+1, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

// Path returns the database file path.
func (b *SQLiteBackend) Path() string { return b.path }
