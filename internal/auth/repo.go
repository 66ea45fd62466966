package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/smart-inventory/inventory/internal/shared"
)

// Repository looks up accounts by username.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// StaticRepository serves the single configured administrator.
type StaticRepository struct {
	user User
}

// NewStaticRepository hashes the configured password once at startup.
func NewStaticRepository(username, password string, cost int) (*StaticRepository, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}
	return &StaticRepository{user: User{Username: username, PasswordHash: hash}}, nil
}

// FindByUsername returns the administrator when the name matches.
func (r *StaticRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	if r == nil || username != r.user.Username {
		return nil, shared.ErrInvalidCredentials
	}
	user := r.user
	return &user, nil
}
