package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkau/bookcatalog/internal/config"
	"github.com/avolkau/bookcatalog/internal/database/users"
	"github.com/avolkau/bookcatalog/internal/entities"
)

var (
	ErrUsernameRequired        = errors.New("username is required")
	ErrPasswordRequired        = errors.New("password is required")
	ErrConfirmPasswordRequired = errors.New("confirm password field is mandatory")
	ErrPasswordMismatch        = errors.New("passwords do not match")
	ErrUserExists              = errors.New("username in use")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so the login error text cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// Service handles registration and credential verification.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		config: cfg,
	}
}

// Register validates the registration form, hashes the password and creates
// the user row. A concurrent duplicate registration loses at the database
// constraint and surfaces as ErrUserExists.
func (s *Service) Register(username, password, confirmPassword string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if confirmPassword == "" {
		return nil, ErrConfirmPasswordRequired
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, hash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Unknown
// usernames and bad passwords both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// UsernameAvailable reports whether no existing account uses the given
// username. Comparison is exact and case-sensitive; the scan over all
// usernames is O(number of users) by contract.
func (s *Service) UsernameAvailable(username string) (bool, error) {
	names, err := s.users.ListUsernames()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == username {
			return false, nil
		}
	}
	return true, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetUserByID(id)
}
