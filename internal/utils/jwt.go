package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token ids
)

// Claims is the token payload: {id, email, userType} plus the registered claims
type Claims struct {
	UserID               string `json:"id"`       // Account id, hex ObjectID
	Email                string `json:"email"`    // Account email at issue time
	UserType             string `json:"userType"` // lawyer, client or admin
	jwt.RegisteredClaims        // exp, iat and jti
}

// TokenID returns the jti used for revocation
func (c *Claims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expiry returns the expiry, zero when the token carries none
func (c *Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// GenerateJWT creates an HS256 token for an account
func GenerateJWT(userID, email, userType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID:   userID,   // Account id
		Email:    email,    // Account email
		UserType: userType, // Role
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                 // Unique token id for logout
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token lifetime from config
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a token string, accepting HS256 only
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrTokenInvalidClaims
}
