package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chynybekuuludastan/seo_inspector/internal/models"
)

// UserRepository defines operations for User model
type UserRepository interface {
	Repository
	FindByEmail(email string) (*models.User, error)
	FindByIDWithRole(userID uuid.UUID) (*models.User, error)
	UpdatePassword(userID uuid.UUID, passwordHash string) error
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
}

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("email = ?", email).Preload("Role").First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithRole finds a user by ID with the role preloaded
func (r *userRepository) FindByIDWithRole(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.DB.Preload("Role").First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword updates a user's password hash
func (r *userRepository) UpdatePassword(userID uuid.UUID, passwordHash string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

// ExistsByEmail checks if a user with the given email exists
func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername checks if a user with the given username exists
func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
