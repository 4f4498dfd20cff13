package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned when no user matches the submitted
	// userid/password pair.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrDuplicateUser is returned when a signup targets an existing userid.
	ErrDuplicateUser = errors.New("users: userid already exists")
	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("users: userid and password are required")
)

// Service implements login and signup on top of the user store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Login scans the full user list for an exact, case-sensitive
// userid/password match. No side effects on failure.
func (s *Service) Login(ctx context.Context, userid, password string) (*User, error) {
	if userid == "" || password == "" {
		return nil, ErrInvalidInput
	}

	list, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("login: user list fetch failed", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	for _, user := range list {
		if user.UserID == userid && user.Password == password {
			found := user
			return &found, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Signup creates a new account unless the userid is already taken. The
// existence check and the create are two separate store calls; a concurrent
// signup can still slip between them. That matches the backing store, which
// does not enforce uniqueness itself.
func (s *Service) Signup(ctx context.Context, userid, password string) error {
	if strings.TrimSpace(userid) == "" || password == "" {
		return ErrInvalidInput
	}

	list, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("signup: user list fetch failed", zap.Error(err))
		return fmt.Errorf("signup: %w", err)
	}
	for _, user := range list {
		if user.UserID == userid {
			return ErrDuplicateUser
		}
	}

	if err := s.store.Create(ctx, User{UserID: userid, Password: password}); err != nil {
		s.logger.Warn("signup: create failed", zap.String("userid", userid), zap.Error(err))
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}
