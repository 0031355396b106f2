package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"careline/internal/token"
	"careline/pkg/sentinel"
)

// dummyHash is a valid bcrypt digest compared against when the principal does
// not exist, so the missing-user path costs roughly the same as a real
// comparison. The input that produced it is not a usable credential.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service orchestrates credential verification and token issuance, and
// validates tokens on demand for the gateway.
type Service struct {
	store  CredentialStore
	codec  *token.Codec
	logger *slog.Logger
}

func NewService(store CredentialStore, codec *token.Codec, logger *slog.Logger) *Service {
	return &Service{store: store, codec: codec, logger: logger}
}

// Authenticate verifies the raw password against the stored hash and issues a
// token carrying the principal's role. Unknown email and wrong password both
// come back as sentinel.ErrUnauthenticated: callers cannot enumerate accounts.
// The outcome is logged; the password and the issued token never are.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	p, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			s.logger.InfoContext(ctx, "authentication failed", "email", email)
			return "", sentinel.ErrUnauthenticated
		}
		s.logger.ErrorContext(ctx, "credential lookup failed", "error", err)
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "authentication failed", "email", email)
		return "", sentinel.ErrUnauthenticated
	}

	signed, err := s.codec.Issue(p.Email, p.Role)
	if err != nil {
		s.logger.ErrorContext(ctx, "token issuance failed", "error", err)
		return "", err
	}

	s.logger.InfoContext(ctx, "authentication succeeded", "email", p.Email, "role", p.Role)
	return signed, nil
}

// ValidateToken collapses every verification failure to false for the
// boolean-contract caller. The richer error kind is logged, not propagated.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) bool {
	if _, err := s.codec.Verify(tokenString); err != nil {
		s.logger.InfoContext(ctx, "token rejected", "reason", err)
		return false
	}
	return true
}
