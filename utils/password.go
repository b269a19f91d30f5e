package utils

import "golang.org/x/crypto/bcrypt"

// HashOfficerPassword hashes a plaintext password for storage. Never store plaintext.
func HashOfficerPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckOfficerPassword returns nil if plain matches the stored bcrypt hash.
func CheckOfficerPassword(plain, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
