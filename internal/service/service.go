package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dpetrov/auth-service/internal/hash"
	"github.com/dpetrov/auth-service/internal/models"
	"github.com/dpetrov/auth-service/internal/token"
	"github.com/dpetrov/auth-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmailTaken is returned when a registration targets an email
	// that already has an account. Stores return it on a uniqueness
	// violation as well.
	ErrEmailTaken = errors.New("email already exists")

	// ErrUserNotFound is returned by stores when no user matches the
	// given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases must stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore persists user records. Email uniqueness is enforced by the
// store itself; CreateUser returns ErrEmailTaken when it is violated.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthResult is what a successful Register or Login hands back.
type AuthResult struct {
	User  *models.User
	Token string
}

// Service handles business logic
type Service struct {
	store   UserStore
	hasher  hash.Hasher
	tokens  *token.Issuer
	welcome *email.Sender // nil when SMTP is not configured
	log     *logrus.Logger
}

// NewService initializes a new service
func NewService(store UserStore, hasher hash.Hasher, tokens *token.Issuer, welcome *email.Sender, log *logrus.Logger) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens, welcome: welcome, log: log}
}

// NormalizeEmail maps an email address to its canonical stored form.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Register creates a new user with a hashed password and issues a token.
func (s *Service) Register(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	emailAddr = NormalizeEmail(emailAddr)

	_, err := s.store.FindUserByEmail(ctx, emailAddr)
	if err == nil {
		s.log.Infof("Registration attempt with existing email: %s", emailAddr)
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: digest,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check; the
		// store's uniqueness constraint is the authoritative signal.
		if errors.Is(err, ErrEmailTaken) {
			s.log.Infof("Registration attempt with existing email: %s", emailAddr)
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.welcome != nil {
		// Best effort: the sender logs failures, registration never
		// waits on SMTP.
		go func(to string) { _ = s.welcome.SendWelcome(to) }(user.Email)
	}

	s.log.Infof("User registered: %s", user.Email)
	return &AuthResult{User: user, Token: tok}, nil
}

// Login authenticates a user and issues a token.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.store.FindUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.Infof("Login attempt with non-existent email: %s", emailAddr)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Infof("Invalid password attempt for email: %s", emailAddr)
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return &AuthResult{User: user, Token: tok}, nil
}
