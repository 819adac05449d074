package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the default adaptive cost factor for password hashing.
// Each +1 doubles the work; 10 keeps interactive logins under ~100ms on
// commodity hardware while remaining expensive to brute-force offline.
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// A cost of 0 selects DefaultBcryptCost. bcrypt generates a fresh random
// salt per call, so hashing the same input twice yields different digests.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a bcrypt digest.
// The comparison is constant-time within bcrypt. A malformed digest yields
// false, never a panic.
func VerifyPassword(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
