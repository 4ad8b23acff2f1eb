// Package user holds the registration and login flow. Passwords are compared
// in plain text, matching the product it fronts; it is explicitly not a
// security design.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no user has the given username.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned when registering a username that is taken.
	ErrExists = errors.New("username already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput is returned for missing registration fields.
	ErrInvalidInput = errors.New("invalid input")
)

// User is a registered account.
type User struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Store persists users. Create returns ErrExists for a taken username;
// FindByUsername returns ErrNotFound when absent.
type Store interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Service handles registration and login.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register creates a new account. Username and password are both required.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrInvalidInput)
	}
	u, err := s.store.Create(ctx, User{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, ErrExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	s.logger.Info("user registered", "username", username)
	return u, nil
}

// Login checks the password for an existing account. An unknown username and
// a wrong password both come back as ErrInvalidCredentials so the response
// does not reveal which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
