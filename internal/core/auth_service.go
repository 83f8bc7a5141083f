package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"attendance.service/pkg/credentials"
)

// RegisterInput is the validated registration payload. The role is
// carried only so a manager signup can be rejected; the created user is
// always an employee.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	EmployeeID string
	Role       string
}

// AuthService implements registration, login and current-user lookup on
// top of the user store and the credential manager.
type AuthService struct {
	users repository.UserRepository
	creds *credentials.Manager
}

func NewAuthService(users repository.UserRepository, creds *credentials.Manager) *AuthService {
	return &AuthService{users: users, creds: creds}
}

// Register creates an employee user and issues a token pair. Manager
// accounts are provisioned out of band; a manager role in the payload is
// rejected with ErrManagerSignup.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (credentials.TokenPair, error) {
	if role, ok := model.ParseRole(in.Role); ok && role == model.RoleManager {
		return credentials.TokenPair{}, ErrManagerSignup
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return credentials.TokenPair{}, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleEmployee,
		Department:   in.Department,
		EmployeeID:   in.EmployeeID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return credentials.TokenPair{}, ErrUserExists
		}
		return credentials.TokenPair{}, fmt.Errorf("creating user: %w", err)
	}

	return s.creds.IssuePair(user.ID, user.Email, time.Now().UTC())
}

// Login verifies the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (credentials.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return credentials.TokenPair{}, fmt.Errorf("finding user: %w", err)
	}
	if user == nil {
		return credentials.TokenPair{}, ErrUserNotFound
	}
	if !s.creds.CheckPassword(user.PasswordHash, password) {
		return credentials.TokenPair{}, ErrInvalidCredentials
	}

	return s.creds.IssuePair(user.ID, user.Email, time.Now().UTC())
}

// CurrentUser loads the authenticated user's profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}
