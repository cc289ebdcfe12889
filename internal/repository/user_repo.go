package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// UserRepository exposes persistence helpers for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByStudentID(ctx context.Context, studentID uint) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	RecordLogin(ctx context.Context, id uint, at time.Time, refreshToken string) error
	SetRefreshToken(ctx context.Context, id uint, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id uint) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByStudentID(ctx context.Context, studentID uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) RecordLogin(ctx context.Context, id uint, at time.Time, refreshToken string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"refresh_token": refreshToken,
		}).Error
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id uint, refreshToken string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", refreshToken).Error
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, id uint) error {
	return r.SetRefreshToken(ctx, id, "")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}
