package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/smart-inventory/inventory/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	token string
	actor string
}

// NewService constructs a new Service. actor is the name recorded for
// requests carrying the token.
func NewService(repo Repository, token, actor string) *Service {
	return &Service{repo: repo, token: token, actor: actor}
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and returns the API token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: s.token, User: UserSummary{Username: user.Username}}, nil
}

// VerifyToken reports whether token grants API access.
func (s *Service) VerifyToken(token string) bool {
	if s.token == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

// Actor names the principal behind a valid token.
func (s *Service) Actor() string {
	return s.actor
}
