package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims extends JWT standard claims with Jobrelay-specific fields.
// The subject is the user ID. Access and refresh tokens share this shape;
// they differ only in signing secret and lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// GenerateToken creates a signed HS256 JWT for a user with the given secret
// and lifetime. The caller chooses access vs refresh semantics by which
// secret and TTL it passes; possession of a token signed with one secret
// cannot forge a token for the other.
//
// Every token carries a fresh jti. Timestamps alone cannot distinguish two
// tokens issued within the same second, and rotation requires each refresh
// token to hash to a new value.
func GenerateToken(user *User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a JWT, returning the claims.
// It checks the signature, expiry, and required fields. Malformed tokens,
// signature mismatches, and elapsed expiry all return ErrTokenInvalid.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}

	return claims, nil
}

// HashRefreshToken computes the SHA-256 hash of a raw refresh token for
// storage. Raw tokens are never persisted - only their hashes. The hash is
// deterministic so the store can compare-and-set it atomically during
// rotation.
func HashRefreshToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// RefreshTokenMatches checks a raw refresh token against a stored hash in
// constant time.
func RefreshTokenMatches(raw, storedHash string) bool {
	presented := HashRefreshToken(raw)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(storedHash)) == 1
}
