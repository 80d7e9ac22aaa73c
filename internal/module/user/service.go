package user

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/homemarket/internal/domain"
)

type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// GetUser returns the user identified by id.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the name and/or email of the user identified by id.
// Empty fields are left unchanged.
func (s *userService) UpdateProfile(ctx context.Context, id uint, name, email string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" {
		if utf8.RuneCountInString(name) > 100 {
			return nil, domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
		}
		user.Name = name
	}
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, domain.NewAppError(domain.CodeValidation, "invalid email address", nil)
		}
		user.Email = email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
