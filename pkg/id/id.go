// Package id provides unique ID generation for MediSearch.
//
//	id.NewULID()  // "01ARZ3NDEKTSV4RRFFQ69G5FAV", time sortable
//	id.NewUUID()  // "550e8400-e29b-41d4-a716-446655440000"
package id

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// entropy is shared by all ULID generation; ids created within the same
// millisecond stay strictly increasing.
var entropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

// NewULID generates a ULID for the current time.
func NewULID() string {
	return NewULIDAt(time.Now())
}

// NewULIDAt generates a ULID whose timestamp component is t.
func NewULIDAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewUUID generates a new UUID v4 string.
func NewUUID() string {
	return uuid.NewString()
}
