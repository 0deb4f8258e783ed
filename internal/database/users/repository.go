// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername(username)
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avolkau/bookcatalog/internal/entities"
)

// ErrDuplicateUsername is returned when the username unique constraint fires.
var ErrDuplicateUsername = errors.New("username already in use")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user row. Uniqueness of the username is enforced
// by the database, not a pre-check, so concurrent registrations with the
// same name produce exactly one winner.
func (r *Repository) CreateUser(username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact, case-sensitive username match.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsernames returns every username in the store. The availability check
// scans this list linearly, so the call is O(number of users).
func (r *Repository) ListUsernames() ([]string, error) {
	var usernames []string
	err := r.db.Model(&entities.User{}).Pluck("username", &usernames).Error
	return usernames, err
}
