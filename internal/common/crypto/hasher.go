package crypto

import "golang.org/x/crypto/bcrypt"

// PasswordHasher derives and verifies salted one-way password digests.
// The salt is generated per call and embedded in the returned digest.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest string, password string) error
}

type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare is constant-time and returns an error for malformed digests
// instead of panicking.
func (h *BcryptHasher) Compare(digest string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
}
