// Package persistence provides the backends the record store is flushed to.
// Every backend stores a bucket as an ordered list of serialized lines.
package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxLineSize bounds a single record line. Patient lines grow with their
// medical history.
const maxLineSize = 16 << 20

// FileBackend keeps each bucket in <dir>/<bucket>.csv, one record per line.
// Save truncates and rewrites the whole file. It does not lock against other
// writers and does not write atomically.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the file backing bucket.
func (b *FileBackend) Path(bucket string) (string, error) {
	if err := checkBucket(bucket); err != nil {
		return "", err
	}
	return filepath.Join(b.dir, bucket+".csv"), nil
}

// Load reads every line of the bucket file. A missing file is an empty bucket.
func (b *FileBackend) Load(_ context.Context, bucket string) ([]string, error) {
	path, err := b.Path(bucket)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Save truncates the bucket file and writes lines, each terminated by a newline.
func (b *FileBackend) Save(_ context.Context, bucket string, lines []string) (retErr error) {
	path, err := b.Path(bucket)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open %s for writing: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

// checkBucket keeps bucket names from escaping the data directory.
func checkBucket(bucket string) error {
	if strings.TrimSpace(bucket) == "" {
		return fmt.Errorf("empty bucket name")
	}
	if strings.ContainsAny(bucket, `/\`) || strings.Contains(bucket, "..") {
		return fmt.Errorf("invalid bucket name %q", bucket)
	}
	return nil
}
