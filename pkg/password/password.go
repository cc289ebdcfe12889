package password

import "golang.org/x/crypto/bcrypt"

const hashCost = 12

// Hash derives a bcrypt hash for storage.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches compares a candidate password against a stored hash in constant
// time.
func Matches(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
