package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateOfficerJWT generates a JWT token for an authenticated department
// officer. The token carries the department name so handlers can scope reads.
func GenerateOfficerJWT(department, departmentCode string, secret []byte, expiresInHours int) (string, error) {
	expiresAt := time.Now().Add(time.Duration(expiresInHours) * time.Hour)

	claims := jwt.MapClaims{
		"department":      department,
		"department_code": departmentCode,
		"actor_type":      "officer",
		"exp":             expiresAt.Unix(),
		"iat":             time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
