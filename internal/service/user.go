package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatboard/chatboard/internal/metrics"
	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/repository"
)

// UserService handles user operations.
type UserService struct {
	store   repository.Store
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := observeStore(s.metrics, func() error {
		var err error
		users, err = s.store.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser validates input and inserts a new user.
// Emails are neither format-checked nor deduplicated.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := validateInput(input, "Name and email required"); err != nil {
		s.metrics.IncValidationFailure()
		return nil, err
	}

	user := &model.User{
		Name:  input.Name,
		Email: input.Email,
	}

	if err := observeStore(s.metrics, func() error { return s.store.CreateUser(ctx, user) }); err != nil {
		return nil, err
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// DeleteUser removes one user. Messages posted under the user's name are kept.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := observeStore(s.metrics, func() error { return s.store.DeleteUser(ctx, id) })
	switch {
	case err == nil:
		s.metrics.IncUserDeleted()
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	default:
		return err
	}
}
