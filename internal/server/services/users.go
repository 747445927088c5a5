package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/users"
)

// UserService handles registration and account lookups.
type UserService struct {
	users users.Repository
}

func NewUserService(u users.Repository) *UserService {
	return &UserService{users: u}
}

// Register creates a new user. The password is hashed with a fresh
// per-user salt before it touches the repository. Email uniqueness is
// enforced by the store, not checked here first, so a duplicate
// registration racing this one still leaves exactly one record; the
// loser surfaces as ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	salt := common.GenerateRandByteArray(saltLength)

	user := &models.User{
		Email:        email,
		Salt:         salt,
		PasswordHash: hashPassword(password, salt),
	}

	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
