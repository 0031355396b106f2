package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"careline/internal/token"
	"careline/pkg/sentinel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func seedStore(t *testing.T, email, password, role string) *InMemoryCredentialStore {
	t.Helper()
	store := NewInMemoryCredentialStore()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), Principal{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}))
	return store
}

func TestAuthenticateSuccess(t *testing.T) {
	store := seedStore(t, "alice@example.com", "s3cret", "ADMIN")
	codec := token.New([]byte("unit-test-secret"))
	svc := NewService(store, codec, testLogger())

	signed, err := svc.Authenticate(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)

	id, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Subject)
	assert.Equal(t, "ADMIN", id.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	store := seedStore(t, "alice@example.com", "s3cret", "ADMIN")
	svc := NewService(store, token.New([]byte("unit-test-secret")), testLogger())

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "nope")
	assert.ErrorIs(t, err, sentinel.ErrUnauthenticated)
}

func TestAuthenticateUnknownEmailIndistinguishable(t *testing.T) {
	store := seedStore(t, "alice@example.com", "s3cret", "ADMIN")
	svc := NewService(store, token.New([]byte("unit-test-secret")), testLogger())

	_, wrongPassword := svc.Authenticate(context.Background(), "alice@example.com", "nope")
	_, unknownUser := svc.Authenticate(context.Background(), "nobody@example.com", "nope")

	// Anti-enumeration: the caller sees the exact same error either way.
	assert.ErrorIs(t, wrongPassword, sentinel.ErrUnauthenticated)
	assert.ErrorIs(t, unknownUser, sentinel.ErrUnauthenticated)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestValidateTokenCollapsesErrorKinds(t *testing.T) {
	codec := token.New([]byte("unit-test-secret"))
	svc := NewService(NewInMemoryCredentialStore(), codec, testLogger())
	ctx := context.Background()

	signed, err := codec.Issue("alice@example.com", "USER")
	require.NoError(t, err)
	assert.True(t, svc.ValidateToken(ctx, signed))

	assert.False(t, svc.ValidateToken(ctx, "garbage"))

	forged, err := token.New([]byte("other-secret")).Issue("alice@example.com", "USER")
	require.NoError(t, err)
	assert.False(t, svc.ValidateToken(ctx, forged))
}
