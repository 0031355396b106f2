package auth

// Principal is a stored identity: a unique email, a bcrypt credential hash,
// and a flat role string. Immutable once created as far as this service is
// concerned; account management lives elsewhere.
type Principal struct {
	Email        string
	PasswordHash string
	Role         string
}
