package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alimgiray/gcrm/internal/auth"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/validation"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthenticated)

// AuthResult is returned by register and login
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	store  *repositories.Store
	tokens *auth.TokenManager
}

func NewUserService(store *repositories.Store, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
	}
}

// Register creates an account and signs the new user in
func (s *UserService) Register(ctx context.Context, input *models.RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithField("user_id", user.ID).Info("User registered")
	return s.issue(user)
}

// Login verifies credentials and returns a fresh token
func (s *UserService) Login(ctx context.Context, input *models.LoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByEmail(ctx, input.Email)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.ComparePassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := requireOwner(id); err != nil {
		return nil, err
	}
	return s.store.Users.GetByID(ctx, id)
}

// Authenticate resolves a bearer token to its user
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name, email or password of the caller. The current
// password must always be supplied and correct.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *models.UpdateProfileInput) (*models.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	trimInPlace(input.Name)
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}

	err := validation.Struct(input)
	if input.NewPassword != nil && (input.ConfirmPassword == nil || *input.ConfirmPassword != *input.NewPassword) {
		err = validation.Merge(err, models.FieldError{Field: "confirmPassword", Message: "Passwords don't match"})
	}
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := auth.ComparePassword(user.PasswordHash, input.CurrentPassword)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, models.NewFieldError("currentPassword", "Current password is incorrect")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.NewPassword != nil {
		hash, err := auth.HashPassword(*input.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
