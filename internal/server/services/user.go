package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexdraft/lexdraft/internal/common"
	"github.com/lexdraft/lexdraft/internal/server/auth"
	"github.com/lexdraft/lexdraft/internal/server/config"
	"github.com/lexdraft/lexdraft/internal/server/models"
	"github.com/lexdraft/lexdraft/internal/server/repositories/repomanager"
)

// UserService handles registration and login. Passwords are stored as
// bcrypt hashes; a successful login mints an HS256 access token carrying
// the user and firm IDs.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Register creates a user in the given firm. Email collisions surface as
// ErrValidation rather than a bare DB error.
func (s *UserService) Register(ctx context.Context, firmID, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirmID:       firmID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed access token. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrUnauthorized
		}
		return "", nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.FirmID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrInternal
	}
	return token, user, nil
}
