package hospital

import "context"

// Backend persists each collection as an ordered list of serialized lines
// under a bucket name ("patients", "doctors", "departments",
// "appointments").
type Backend interface {
	// Load returns the stored lines of bucket. A bucket that was never
	// written yields no lines and no error.
	Load(ctx context.Context, bucket string) ([]string, error)
	// Save replaces the contents of bucket with lines.
	Save(ctx context.Context, bucket string, lines []string) error
	Close() error
}

// Recorder receives store instrumentation.
type Recorder interface {
	Operation(op string, err error)
	RecordSkipped(bucket string)
	CollectionSize(bucket string, n int)
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, error)   {}
func (nopRecorder) RecordSkipped(string)      {}
func (nopRecorder) CollectionSize(string, int) {}
