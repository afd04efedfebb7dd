// Package auth keeps session state that outlives a single request: revoked
// token ids and one-time password reset tokens.
package auth

import (
	"context" // Cancellation and deadlines
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/utils"     // Cache helpers

	"github.com/google/uuid" // Unique ids
)

// RevokedKey is the cache key marking a token id as logged out
func RevokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

// ResetKey is the cache key holding the account id for a reset token
func ResetKey(token string) string {
	return "auth:reset:" + token
}

// Revocations records logged-out tokens until they would have expired anyway
type Revocations struct {
	kv  utils.KV         // Shared cache
	now func() time.Time // Clock
}

// NewRevocations stores revoked token ids in kv
func NewRevocations(kv utils.KV) *Revocations {
	return &Revocations{kv: kv, now: time.Now}
}

// Revoke marks tokenID as unusable until expiresAt
func (r *Revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now()) // Keep only while the token could still verify
	if ttl <= 0 {
		return nil // Already expired
	}
	return r.kv.Set(ctx, RevokedKey(tokenID), "1", ttl)
}

// IsRevoked reports whether tokenID was logged out
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, ok, err := r.kv.Get(ctx, RevokedKey(tokenID))
	return ok, err
}

// ResetTokens issues and redeems one-time password reset tokens
type ResetTokens struct {
	kv  utils.KV      // Shared cache
	ttl time.Duration // Token lifetime
}

// NewResetTokens stores reset tokens in kv for ttl
func NewResetTokens(kv utils.KV, ttl time.Duration) *ResetTokens {
	return &ResetTokens{kv: kv, ttl: ttl}
}

// Issue stores a fresh token for userID
func (r *ResetTokens) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString() // Random, unguessable
	if err := r.kv.Set(ctx, ResetKey(token), userID, r.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem returns the account id for token and invalidates it
func (r *ResetTokens) Redeem(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.Validation("Reset token is required", map[string]string{"token": "Reset token is required"})
	}
	userID, ok, err := r.kv.Get(ctx, ResetKey(token))
	if err != nil {
		return "", apperrors.Wrap("Failed to read reset token", err)
	}
	if !ok {
		return "", apperrors.Validation("Invalid or expired reset token", nil)
	}
	if err := r.kv.Del(ctx, ResetKey(token)); err != nil { // One use only
		return "", apperrors.Wrap("Failed to consume reset token", err)
	}
	return userID, nil
}
