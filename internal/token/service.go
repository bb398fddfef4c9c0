package token

import (
	"errors"
	"time"

	"property-service/internal/model"

	"gorm.io/gorm"
)

// ErrInvalidToken is returned for unknown, revoked, or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Service issues, verifies, and revokes opaque bearer tokens backed by the
// access_tokens table. Revocation at logout is immediate because every
// verification hits the stored record.
type Service struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewService creates a token service with the given expiration window.
func NewService(db *gorm.DB, expirationHours int) *Service {
	return &Service{
		db:  db,
		ttl: time.Duration(expirationHours) * time.Hour,
	}
}

// Issue creates a new token for the user and returns the raw token string.
func (s *Service) Issue(userID uint) (string, error) {
	t := model.AccessToken{
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&t).Error; err != nil {
		return "", err
	}
	return t.Token, nil
}

// Verify resolves a raw token string to its user. Unknown, revoked, and
// expired tokens all fail the same way.
func (s *Service) Verify(raw string) (*model.User, error) {
	var t model.AccessToken
	if err := s.db.Where("token = ?", raw).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !t.IsValid() {
		return nil, ErrInvalidToken
	}

	var user model.User
	if err := s.db.First(&user, t.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &user, nil
}

// Revoke marks the raw token as revoked. Revoking an unknown token is not
// an error.
func (s *Service) Revoke(raw string) error {
	return s.db.Model(&model.AccessToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error
}
