package repositories

import "stockcontrol/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	FindByCredentials(username, password string) (*models.User, error)
}
