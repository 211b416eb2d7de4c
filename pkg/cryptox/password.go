package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch reports a password that does not match the stored hash.
var ErrMismatch = errors.New("cryptox: password mismatch")

// dummyHash is a valid bcrypt hash used to equalize verification timing when
// no stored hash exists for the claimed identity. Login failures must not
// reveal whether the account or the password was wrong.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// Returns ErrMismatch when they do not match.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// VerifyDummy burns a full bcrypt comparison against a throwaway hash.
// Call it on the unknown-account path so that path costs the same as a
// real comparison.
func VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
