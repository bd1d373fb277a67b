package repositories

import (
	"errors"
	"fmt"
	"strings"

	"stockcontrol/internal/models"

	"gorm.io/gorm"
)

var _ UserRepository = (*GORMUserRepository)(nil)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. A taken username yields models.ErrDuplicateUsername.
func (r *GORMUserRepository) Create(user *models.User) error {
	user.ID = 0
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.Username, models.ErrDuplicateUsername)
		}
		return models.NewStorageError("insert user", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("fetch user", map[string]interface{}{"Username": username})
}

// FindByCredentials looks up the user whose username and password both match exactly.
func (r *GORMUserRepository) FindByCredentials(username, password string) (*models.User, error) {
	return r.first("authenticate", map[string]interface{}{"Username": username, "Password": password})
}

func (r *GORMUserRepository) first(op string, conds map[string]interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.Where(conds).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, models.NewStorageError(op, err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
