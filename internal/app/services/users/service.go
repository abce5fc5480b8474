// Package users implements the signup and login flows.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strideshop/storefront/internal/app/auth"
	"github.com/strideshop/storefront/internal/app/domain/user"
	"github.com/strideshop/storefront/internal/app/storage"
	"github.com/strideshop/storefront/pkg/logger"
)

var (
	// ErrValidation marks a request missing required input.
	ErrValidation = errors.New("invalid signup or login input")

	// ErrEmailTaken is returned when the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnknownEmail is returned when no account exists for the login email.
	ErrUnknownEmail = errors.New("no account for email")

	// ErrInvalidCredentials is returned when the password does not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service manages customer accounts.
type Service struct {
	store  storage.UserStore
	hasher *auth.Hasher
	log    *logger.Logger
}

// New constructs a users service.
func New(store storage.UserStore, hasher *auth.Hasher, log *logger.Logger) *Service {
	if hasher == nil {
		hasher = auth.NewHasher(auth.DefaultCost)
	}
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{store: store, hasher: hasher, log: log}
}

// Signup validates the input, hashes the password and creates the account.
// The email uniqueness guarantee comes from the store, not from a prior
// lookup, so concurrent signups for the same email cannot both succeed.
func (s *Service) Signup(ctx context.Context, name, email, password string) (user.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return user.User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{Name: name, Email: email, Password: digest})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.WithField("user_id", created.ID).Info("user signed up")
	return created, nil
}

// Login validates the credentials against the stored digest. No session or
// token is issued; the call only confirms the credentials.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return user.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	account, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, ErrUnknownEmail
		}
		return user.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, account.Password) {
		return user.User{}, ErrInvalidCredentials
	}

	s.log.WithField("user_id", account.ID).Info("user logged in")
	return account, nil
}
