// Package service provides the auth API's business logic, delegating
// persistence to an AuthRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/tourney/internal/models"
	"github.com/atinyakov/tourney/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already has an account")
	// ErrDisplayNameTaken is returned when registering a display name already in use.
	ErrDisplayNameTaken = errors.New("display name already taken")
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	DisplayNameExists(ctx context.Context, name string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements registration, login and token authentication.
type Service struct {
	repo   AuthRepository
	tokens *TokenIssuer
	cost   int
	now    func() time.Time
}

// NewAuthService constructs a Service using the provided repository and token issuer.
func NewAuthService(repo AuthRepository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
}

// Register creates a user. Email and display name must both be unused.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	taken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.repo.DisplayNameExists(ctx, req.DisplayName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDisplayNameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and issues a bearer access token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user. Unknown users are
// reported as ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Subject(token)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
