package patient

import (
	"time"

	"github.com/google/uuid"
)

// Record is a stored patient. The ID is generated on creation and never
// changes; the email is globally unique across all records, enforced both by
// the pre-write existence check and by the store's unique constraint.
type Record struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Address        string
	DateOfBirth    time.Time
	RegisteredDate time.Time
}

// WriteRequest carries the caller-supplied fields for create and update.
type WriteRequest struct {
	Name        string
	Email       string
	Address     string
	DateOfBirth time.Time
}
