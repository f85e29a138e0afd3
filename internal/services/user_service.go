package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/joshua-takyi/tampabay/internal/models"
)

const weakPasswordMessage = "The password must be at least 8 characters and include upper and lower case letters, a number and a symbol."

type UserService struct {
	userRepo models.UserRepo
	tokens   *helpers.Tokens
}

func NewUserService(userRepo models.UserRepo, tokens *helpers.Tokens) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (us *UserService) CreateUser(ctx context.Context, fullName, email, password string) (*models.User, error) {
	user := &models.User{
		FullName: helpers.StringTrim(fullName),
		Email:    models.NormalizeEmail(email),
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, NewValidationError(err)
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, newValidationError(weakPasswordMessage)
	}

	hashed, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// AuthenticateUser checks the credentials and issues a session token.
func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.SessionResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := us.userRepo.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CheckPassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := us.tokens.Generate(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, err
	}
	return &models.SessionResponse{Token: token, ExpiresAt: expires, User: user}, nil
}

func (us *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}
