package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a password with the given
// cost.  Used by deployment tooling to produce OPERATOR_PASSWORD_HASH.
func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash against a candidate password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
