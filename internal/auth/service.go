package auth

import (
	"context" // Cancellation and deadlines
	"strings" // String helpers
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/domain"    // Domain models
	"legal_practice/internal/store"     // Mongo stores
	"legal_practice/internal/utils"     // Cache helpers
	"legal_practice/internal/wire"      // JSON shapes

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const (
	msgInvalidCredentials = "Invalid email or password" // Same for unknown email and wrong password
	msgInvalidToken       = "Invalid or expired token"  // Bad signature, expiry or revocation
	msgUserNotFound       = "User not found"            // Token for a deleted account
	msgEmailInUse         = "Email already in use"      // Taken email
)

// Service runs the account flows shared by the HTTP API and the direct backend
type Service struct {
	users       store.UserRepository // Identity store
	secret      string               // JWT signing key
	ttl         time.Duration        // Token lifetime
	revocations *Revocations         // Logged out token ids
	resets      *ResetTokens         // Pending password resets
	log         logrus.FieldLogger   // Component logger
}

// NewService builds the auth service over the user store
func NewService(users store.UserRepository, secret string, ttl time.Duration, revocations *Revocations, resets *ResetTokens, log logrus.FieldLogger) *Service {
	return &Service{
		users:       users,
		secret:      secret,
		ttl:         ttl,
		revocations: revocations,
		resets:      resets,
		log:         log.WithField("component", "auth"),
	}
}

// Revocations exposes the revocation list used by the JWT middleware
func (s *Service) Revocations() *Revocations {
	return s.revocations
}

// Secret is the token signing key
func (s *Service) Secret() string {
	return s.secret
}

// IssueToken signs a token for an account
func (s *Service) IssueToken(user *domain.User) (string, error) {
	token, err := utils.GenerateJWT(wire.FormatID(user.ID), user.Email, string(user.Role), s.secret, s.ttl) // Sign claims
	if err != nil {
		return "", apperrors.Wrap("Failed to generate token", err)
	}
	return token, nil
}

// Register creates an account and signs its first token
func (s *Service) Register(ctx context.Context, n domain.NewUser) (*domain.User, string, error) {
	n.Normalize() // Lowercase email, derive missing names
	if err := n.Validate(); err != nil {
		return nil, "", err
	}
	// Find-then-insert; the unique index settles a concurrent registration
	if _, err := s.users.FindByEmail(ctx, n.Email); err == nil {
		return nil, "", apperrors.Duplicate(msgEmailInUse, nil).WithDetails("This email address is already registered")
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, "", err
	}
	user, err := s.users.Create(ctx, n) // Hashes the password
	if err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials; unknown email and wrong password look the same
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, "", apperrors.Unauthorized(msgInvalidCredentials)
	} else if err != nil {
		return nil, "", err
	}
	if !store.VerifyPassword(user, password) {
		return nil, "", apperrors.Unauthorized(msgInvalidCredentials)
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify resolves a token to its account
func (s *Service) Verify(ctx context.Context, token string) (*domain.User, *utils.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, apperrors.Validation("Token is required", nil)
	}
	claims, err := utils.ParseJWT(token, s.secret) // Signature and expiry
	if err != nil {
		return nil, nil, apperrors.Unauthorized(msgInvalidToken)
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID()) // Logged out tokens
	if err != nil {
		return nil, nil, apperrors.Wrap("Failed to verify token", err)
	}
	if revoked {
		return nil, nil, apperrors.Unauthorized(msgInvalidToken)
	}
	id, ok := wire.ParseRef(claims.UserID)
	if !ok {
		return nil, nil, apperrors.Unauthorized(msgInvalidToken)
	}
	user, err := s.users.FindByID(ctx, id) // Account may have been removed
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes a token until its expiry
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revocations.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.Wrap("Failed to log out", err)
	}
	return nil
}

// ChangePassword replaces the password after checking the current one
func (s *Service) ChangePassword(ctx context.Context, id bson.ObjectID, current, next string) error {
	if current == "" || next == "" {
		return apperrors.Validation("Current password and new password are required", nil)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !store.VerifyPassword(user, current) {
		return apperrors.Unauthorized("Current password is incorrect")
	}
	_, err = s.users.Update(ctx, id, domain.UserPatch{Password: &next}) // Re-hashed by the store
	return err
}

// ChangeEmail moves the account to a new email unless another account holds it
func (s *Service) ChangeEmail(ctx context.Context, id bson.ObjectID, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email) // Compare lowercased
	if email == "" {
		return nil, apperrors.Validation("Email is required", nil)
	}
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != id:
		return nil, apperrors.Validation(msgEmailInUse, nil)
	case err != nil && !apperrors.Is(err, apperrors.KindNotFound):
		return nil, err
	}
	return s.users.Update(ctx, id, domain.UserPatch{Email: &email})
}

// RequestReset issues a reset token for a registered email. An unknown
// email returns an empty token and no error.
func (s *Service) RequestReset(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", apperrors.Validation("Email is required", nil)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if apperrors.Is(err, apperrors.KindNotFound) {
		s.log.Debug("Password reset requested for unknown email")
		return "", nil // Do not disclose which emails exist
	} else if err != nil {
		return "", err
	}
	token, err := s.resets.Issue(ctx, wire.FormatID(user.ID))
	if err != nil {
		return "", apperrors.Wrap("Failed to issue reset token", err)
	}
	// TODO: hand the token to a mailer once outbound email is configured
	s.log.WithFields(logrus.Fields{"user_id": wire.FormatID(user.ID), "reset_token": token}).Debug("Password reset token issued")
	return token, nil
}

// ConfirmReset redeems a reset token and sets the new password
func (s *Service) ConfirmReset(ctx context.Context, token, password string) (*domain.User, error) {
	if password == "" {
		return nil, apperrors.Validation("New password is required", map[string]string{"newPassword": "New password is required"})
	}
	userID, err := s.resets.Redeem(ctx, token)
	if err != nil {
		return nil, err
	}
	id, ok := wire.ParseRef(userID)
	if !ok {
		return nil, apperrors.Validation("Invalid or expired reset token", nil)
	}
	return s.users.Update(ctx, id, domain.UserPatch{Password: &password})
}
