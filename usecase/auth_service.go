package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/utils/log"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrAuthUnavailable    = errors.New("auth store unavailable")
)

// AuthService signs users up and in. Without a configured store every
// well-formed attempt succeeds as the default user.
type AuthService struct {
	store      domain.Store
	configured bool
	now        func() time.Time
}

func NewAuthService(store domain.Store, configured bool) *AuthService {
	return &AuthService{
		store:      store,
		configured: configured && store != nil,
		now:        time.Now,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if !s.configured {
		return s.simulatedUser(in.Name, email), nil
	}

	logger := log.WithCtx(ctx)

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("failed to look up email", zap.Error(err))
		return nil, ErrAuthUnavailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		logger.Error("failed to create user", zap.Error(err))
		return nil, ErrAuthUnavailable
	}

	logger.Info("user signed up", zap.String("new_user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if !s.configured {
		return s.simulatedUser("", email), nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.WithCtx(ctx).Error("failed to look up user for login", zap.Error(err))
		return nil, ErrAuthUnavailable
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) simulatedUser(name, email string) *domain.User {
	if name == "" {
		name = defaultUserName
	}
	now := s.now()
	return &domain.User{
		ID:        DefaultUserID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
