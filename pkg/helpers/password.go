package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash from the plaintext password. The
// plaintext is never stored; the hash is a one-way verifier.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether the plaintext matches the stored
// hash. A mismatch is a false return, never an error.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
