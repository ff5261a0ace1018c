package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
)

// UserService resolves authenticated callers to their user rows.
type UserService interface {
	// Resolve makes sure a row exists for a signed-in subject and reports whether the
	// user is blocked. The stored role wins over the token's when it is admin.
	Resolve(ctx context.Context, subject Subject) (Subject, error)
	NewGuestID() string
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Resolve(ctx context.Context, subject Subject) (Subject, error) {
	if subject.Guest {
		return subject, nil
	}
	user, err := s.userRepo.FindByID(ctx, subject.ID)
	if errors.Is(err, repository.ErrNotFound) {
		user = &model.User{ID: subject.ID, Role: model.RoleUser}
		if err := s.userRepo.EnsureExists(ctx, user); err != nil {
			return Subject{}, fmt.Errorf("register user %s: %w", subject.ID, err)
		}
		user, err = s.userRepo.FindByID(ctx, subject.ID)
	}
	if err != nil {
		return Subject{}, fmt.Errorf("load user %s: %w", subject.ID, err)
	}
	if user.Blocked {
		return Subject{}, fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if user.Role == model.RoleAdmin {
		subject.Role = model.RoleAdmin
	}
	return subject, nil
}

func (s *userService) NewGuestID() string {
	return uuid.NewString()
}
