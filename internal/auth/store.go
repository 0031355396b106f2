package auth

import "context"

// CredentialStore looks up principals by their unique email. Implementations
// return sentinel.ErrNotFound when no principal exists; the service folds
// that into the same outcome as a bad password.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (Principal, error)
}
