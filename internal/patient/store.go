package patient

import (
	"context"

	"github.com/google/uuid"
)

// Store persists patient records. The application-level existence checks are
// a best-effort fast path; the storage layer's unique email constraint is the
// authoritative guard under concurrent writes, and implementations translate
// that violation to sentinel.ErrDuplicateEmail.
type Store interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcept reports whether another record than except uses
	// the email; update flows use it to allow a record to keep its own.
	ExistsByEmailExcept(ctx context.Context, email string, except uuid.UUID) (bool, error)
	Insert(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	FindByID(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
