package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gptlink/internal/models"
)

// UserRepository stores the profile of the signed-in account in a
// single-row table (ID=1).
type UserRepository interface {
	Current(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Current returns nil without error when nobody is signed in.
func (r *userRepository) Current(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Save(ctx context.Context, u *models.User) error {
	u.ID = 1
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, 1).Error
}
