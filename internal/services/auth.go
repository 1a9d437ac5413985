package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventhub/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	emailService   domain.EmailService
	logger         *slog.Logger
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService. tokenExpiry is the lifetime of issued tokens.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	emailService domain.EmailService,
	logger *slog.Logger,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		issuer:         issuer,
		emailService:   emailService,
		logger:         logger,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateCredentials(email, password, name string) error {
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return nil
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.createUser(ctx, email, password, name, false)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: user.Email, Name: user.Name}); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
	}
	return user, nil
}

func (s *authService) createUser(ctx context.Context, email, password, name string, isAdmin bool) (*domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := validateCredentials(email, password, name); err != nil {
		return nil, err
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.NewUser(email, name, isAdmin, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.IsAdmin, s.tokenExpiry)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		s.logger.InfoContext(ctx, "admin user already exists", "email", existing.Email)
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("get user: %w", err)
	}

	if _, err := s.createUser(ctx, email, password, name, true); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
