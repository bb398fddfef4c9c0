package repository

import (
	"context"
	"errors"

	"property-service/internal/model"

	"gorm.io/gorm"
)

// UserRepository provides user lookups for authentication and for the
// notification dispatcher's owner resolution.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether a user with the given email already exists.
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// OwnerOf resolves the owning user of a property. Used by the notification
// dispatcher; the context carries the per-attempt deadline.
func (r *UserRepository) OwnerOf(ctx context.Context, p *model.Property) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, p.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
