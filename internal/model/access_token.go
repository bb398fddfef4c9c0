package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// AccessToken is an opaque bearer token issued at register/login and
// revoked at logout. The raw token string is never exposed in responses.
type AccessToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Token     string    `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills in a random token when none was provided.
func (t *AccessToken) BeforeCreate(tx *gorm.DB) error {
	if t.Token == "" {
		token, err := generateSecureToken()
		if err != nil {
			return err
		}
		t.Token = token
	}
	return nil
}

// IsExpired checks if the token is expired.
func (t *AccessToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsValid checks if the token is valid (not expired and not revoked).
func (t *AccessToken) IsValid() bool {
	return !t.Revoked && !t.IsExpired()
}

// generateSecureToken creates a secure random token string.
func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
