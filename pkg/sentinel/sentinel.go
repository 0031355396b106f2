package sentinel

import "errors"

// Sentinel errors for the platform. Stores, codecs and clients return these
// (optionally wrapped) so services can translate them at the HTTP or RPC
// boundary without string matching.
//
// Token verification distinguishes three kinds internally; boundary callers
// collapse all of them to 401:
// - ErrExpired: token past its expiry at verification time
// - ErrMalformed: not a well-formed token
// - ErrInvalidSignature: claims tampered or signed with the wrong key
var (
	// ErrUnauthenticated covers both unknown principal and bad credential.
	// The two are deliberately not distinguishable by callers.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("invalid token signature")

	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrPersistence    = errors.New("persistence failure")

	// ErrBillingUnavailable marks a failed or timed-out billing RPC. The
	// local write that preceded it is not rolled back.
	ErrBillingUnavailable = errors.New("billing service unavailable")
)
