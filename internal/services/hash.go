package services

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest; the salt is embedded in the
// digest, so two calls with the same input yield different values.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(raw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}
