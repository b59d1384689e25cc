package user

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Service handles account creation and credential verification.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "user-service").Logger(),
	}
}

// Create registers a new account with a bcrypt password hash and returns the
// new user ID. A taken username surfaces as a conflict.
func (s *Service) Create(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"Username and password are required",
			nil,
			"5f0c2a7e-91d4-4b3a-a2c8-6e1f3d8b4a90",
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to hash password",
			err,
			"c4a9b1d6-2e8f-47c0-9d3b-8a5e6f1c2d74",
		)
	}

	id, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}

	s.log.Info().Str("username", username).Int64("user_id", id).Msg("user created")
	return id, nil
}

// Authenticate verifies the supplied credentials and resolves the caller
// identity. Password comparison goes through bcrypt, never plaintext equality.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	if username == "" || password == "" {
		s.log.Warn().Msg("authentication required but not provided")
		return Identity{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthenticated,
			"Authentication required",
			nil,
			"8d2e6b4f-0a1c-4d7e-b3f9-5c8a2e6d1b40",
		)
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return Identity{}, err
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.log.Warn().Str("username", username).Msg("invalid credentials")
		return Identity{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidCredentials,
			"Invalid credentials",
			nil,
			"3b7c9e1a-6d4f-42b8-8e0a-9f5d2c7b3a16",
		)
	}

	s.log.Info().Str("username", username).Msg("user authenticated successfully")
	return Identity{UserID: account.ID, Username: account.Username}, nil
}
