package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type AuthService struct {
	repo   domain.UserRepository
	tokens *TokenService
}

func NewAuthService(repo domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a signed token. Lookup and
// password failures collapse into one error so the response never says
// which part was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(user.ID)
}
