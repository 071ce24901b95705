package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"food-server/internal/auth"
	"food-server/internal/domain"
	"food-server/internal/repository"
)

const minPasswordLength = 8

var (
	// ErrInvalidSignUp indicates malformed signup fields.
	ErrInvalidSignUp = errors.New("invalid signup request")
	// ErrEmailTaken is returned when attempting to register an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// TokenIssuer encodes a user identity into a bearer token.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// LoginFailure explains why a login did not yield a token.
type LoginFailure string

const (
	LoginInvalidCredentials LoginFailure = "invalid_credentials"
	LoginUnavailable        LoginFailure = "unavailable"
)

// LoginResult is either a success carrying a token or a failure carrying a code.
type LoginResult struct {
	token   string
	failure LoginFailure
	cause   error
}

func LoginSucceeded(token string) LoginResult {
	return LoginResult{token: token}
}

func LoginFailed(code LoginFailure, cause error) LoginResult {
	return LoginResult{failure: code, cause: cause}
}

// Token returns the issued token and true on success.
func (r LoginResult) Token() (string, bool) {
	if r.failure != "" {
		return "", false
	}
	return r.token, true
}

func (r LoginResult) Failure() LoginFailure { return r.failure }

// Err is the underlying cause of an unavailable login, for logging.
func (r LoginResult) Err() error { return r.cause }

// UserService describes user account operations.
type UserService interface {
	SignUp(ctx context.Context, email, password, nickname string) (*domain.User, error)
	Login(ctx context.Context, email, password string) LoginResult
}

type userService struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
	}
}

func (s *userService) SignUp(ctx context.Context, email, password, nickname string) (*domain.User, error) {
	email = normalizeEmail(email)
	nickname = strings.TrimSpace(nickname)

	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidSignUp)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignUp, minPasswordLength)
	}
	if len(password) > 72 {
		// bcrypt input limit
		return nil, fmt.Errorf("%w: password too long", ErrInvalidSignUp)
	}
	if nickname == "" {
		nickname = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, email, password string) LoginResult {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginFailed(LoginInvalidCredentials, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginFailed(LoginInvalidCredentials, nil)
		}
		return LoginFailed(LoginUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginFailed(LoginInvalidCredentials, nil)
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return LoginFailed(LoginUnavailable, err)
	}
	return LoginSucceeded(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
