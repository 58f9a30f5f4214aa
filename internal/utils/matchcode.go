package utils

import "golang.org/x/crypto/bcrypt"

// HashMatchCode returns the bcrypt hash of a private match access code
// using the given cost.  Only the hash is stored; the organizer shares
// the plain code out of band.
func HashMatchCode(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyMatchCode safely compares a stored bcrypt hash and a plain code.
func VerifyMatchCode(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
