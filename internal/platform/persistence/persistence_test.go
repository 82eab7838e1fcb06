package persistence

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ehr/hospital/internal/platform/db"
)

// exerciseBackend checks the contract every backend shares.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	lines, err := b.Load(ctx, "patients")
	if err != nil {
		t.Fatalf("Load on empty bucket: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty bucket, got %v", lines)
	}

	want := []string{"P000001,Ann,F,555", "P000002,Bob,M,556"}
	if err := b.Save(ctx, "patients", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := b.Load(ctx, "patients")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}

	// Save replaces, never appends.
	if err := b.Save(ctx, "patients", want[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = b.Load(ctx, "patients")
	if !reflect.DeepEqual(got, want[:1]) {
		t.Errorf("after replace Load = %v, want %v", got, want[:1])
	}

	// Buckets are independent.
	if err := b.Save(ctx, "doctors", []string{"D000001"}); err != nil {
		t.Fatalf("Save doctors: %v", err)
	}
	got, _ = b.Load(ctx, "patients")
	if len(got) != 1 {
		t.Errorf("patients bucket changed by doctors save: %v", got)
	}

	if err := b.Save(ctx, "doctors", nil); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, _ = b.Load(ctx, "doctors")
	if len(got) != 0 {
		t.Errorf("expected emptied bucket, got %v", got)
	}
}

func TestFileBackend_Contract(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	exerciseBackend(t, b)
}

func TestFileBackend_OnDiskLayout(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if err := b.Save(context.Background(), "departments", []string{"DP000001,Cardiology,Bldg A", "DP000002,Oncology,Bldg B"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "departments.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "DP000001,Cardiology,Bldg A\nDP000002,Oncology,Bldg B\n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", data, want)
	}
}

func TestFileBackend_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileBackend(dir); err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("expected %s to be created", dir)
	}
}

func TestFileBackend_RejectsBucketTraversal(t *testing.T) {
	b, _ := NewFileBackend(t.TempDir())
	for _, bucket := range []string{"", "../etc", "a/b", `a\b`} {
		if err := b.Save(context.Background(), bucket, []string{"x"}); err == nil {
			t.Errorf("Save(%q) expected error", bucket)
		}
	}
}

func TestFileBackend_SaveFailsWhenUnwritable(t *testing.T) {
	dir := t.TempDir()
	b, _ := NewFileBackend(dir)
	// A directory where the file should be makes os.Create fail.
	if err := os.Mkdir(filepath.Join(dir, "patients.csv"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := b.Save(context.Background(), "patients", []string{"x"}); err == nil {
		t.Fatal("expected error writing over a directory")
	}
}

func TestMemoryBackend_Contract(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackend_CopiesLines(t *testing.T) {
	b := NewMemoryBackend()
	lines := []string{"a", "b"}
	_ = b.Save(context.Background(), "x", lines)
	lines[0] = "mutated"
	got, _ := b.Load(context.Background(), "x")
	if got[0] != "a" {
		t.Errorf("backend aliased caller slice: %v", got)
	}
}

func TestSQLiteBackend_Contract(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "hospital.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospital.db")
	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	want := []string{"A000001,P1,D1,2024-07-01,10:00,Scheduled,"}
	if err := b.Save(context.Background(), "appointments", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b2, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b2.Close()
	got, err := b2.Load(context.Background(), "appointments")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %v, want %v", got, want)
	}
}

func TestPostgresBackend_Contract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	b, err := NewPostgresBackend(ctx, url, 2, 0)
	if err != nil {
		t.Fatalf("NewPostgresBackend: %v", err)
	}
	defer b.Close()
	for _, bucket := range []string{"patients", "doctors"} {
		_ = b.Save(ctx, bucket, nil)
	}
	exerciseBackend(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Kind: KindFile, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := b.(*FileBackend); !ok {
		t.Errorf("expected *FileBackend, got %T", b)
	}

	b, err = Open(ctx, Options{Kind: KindMemory})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := b.(*MemoryBackend); !ok {
		t.Errorf("expected *MemoryBackend, got %T", b)
	}

	if _, err := Open(ctx, Options{Kind: KindPostgres}); err == nil {
		t.Error("expected error for postgres without url")
	}
	if _, err := Open(ctx, Options{Kind: "mongo"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestKnown(t *testing.T) {
	for _, k := range []string{KindFile, KindMemory, KindSQLite, KindPostgres} {
		if !Known(k) {
			t.Errorf("Known(%q) = false", k)
		}
	}
	if Known("redis") {
		t.Error("Known(redis) = true")
	}
}

func TestPostgresMigrations_Embedded(t *testing.T) {
	sub, err := fs.Sub(postgresMigrations, "migrations/postgres")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	migrations, err := db.NewMigrator(nil, sub).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != 1 {
		t.Fatalf("unexpected migrations %+v", migrations)
	}
	if !strings.Contains(migrations[0].SQL, recordsTable) {
		t.Errorf("first migration does not create %s", recordsTable)
	}
}
