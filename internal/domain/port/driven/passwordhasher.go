package driven

// PasswordHasher is the one-way credential hashing primitive.
type PasswordHasher interface {
	// Hash returns a self-describing encoded hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash. A malformed
	// encoded value is an error; a mismatch is (false, nil).
	Verify(encoded, password string) (bool, error)
}
