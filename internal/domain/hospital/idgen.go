package hospital

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDScheme selects how identifier suffixes are produced.
type IDScheme string

const (
	// IDSchemeClock appends six zero-padded digits taken from the millisecond
	// clock modulo one million.
	IDSchemeClock IDScheme = "clock"
	// IDSchemeUUID appends a random UUID.
	IDSchemeUUID IDScheme = "uuid"
)

const clockModulus = 1_000_000

// TimeSource feeds the clock scheme. It should return a high-resolution
// monotonically advancing value.
type TimeSource func() int64

// MillisSource reads the wall clock in milliseconds.
func MillisSource() int64 { return time.Now().UnixMilli() }

// IDGenerator allocates prefixed identifiers, retrying until the candidate
// is absent from the target collection.
//
// The check-then-use in Generate is not synchronized. It is only correct
// while a single goroutine creates entities; concurrent creation needs an
// atomic counter or IDSchemeUUID behind a lock.
type IDGenerator struct {
	scheme IDScheme
	source TimeSource
}

// NewIDGenerator returns a generator. A nil source uses MillisSource.
func NewIDGenerator(scheme IDScheme, source TimeSource) *IDGenerator {
	if scheme == "" {
		scheme = IDSchemeClock
	}
	if source == nil {
		source = MillisSource
	}
	return &IDGenerator{scheme: scheme, source: source}
}

// Generate returns an id for kind that exists reports as unused.
func (g *IDGenerator) Generate(kind Kind, exists func(id string) bool) string {
	for {
		id := g.candidate(kind)
		if !exists(id) {
			return id
		}
	}
}

func (g *IDGenerator) candidate(kind Kind) string {
	if g.scheme == IDSchemeUUID {
		return kind.Prefix() + uuid.NewString()
	}
	n := g.source() % clockModulus
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%s%06d", kind.Prefix(), n)
}
