package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"atlasbourse/internal/entity"
	marketconfig "atlasbourse/internal/market/config"
	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/repository"
	"atlasbourse/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultSessionTTL = 24 * time.Hour

// AuthService manages accounts and bearer-token sessions.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (uint, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *marketconfig.Config, userRepo repository.UserRepository, portfolioRepo repository.PortfolioRepository, sessions SessionStore, log *logger.Logger) AuthService {
	ttl := defaultSessionTTL
	if cfg.Auth.SessionTTL != "" {
		if parsed, err := time.ParseDuration(cfg.Auth.SessionTTL); err == nil {
			ttl = parsed
		}
	}
	return &authService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		sessions:      sessions,
		log:           log,
		sessionTTL:    ttl,
		startingCash:  decimal.NewFromFloat(cfg.Market.StartingCash),
	}
}

type authService struct {
	userRepo      repository.UserRepository
	portfolioRepo repository.PortfolioRepository
	sessions      SessionStore
	log           *logger.Logger
	sessionTTL    time.Duration
	startingCash  decimal.Decimal
}

// Register creates the user with a hashed password, opens their portfolio
// with the starting cash balance and logs them in.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, entity.ErrInvalidCredentials
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, entity.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.portfolioRepo.CreateForUser(ctx, user.ID, s.startingCash); err != nil {
		s.log.Error("Failed to create portfolio for new user",
			logger.ErrorField(err), logger.Field("user_id", user.ID))
		return nil, err
	}

	s.log.Info("User registered", logger.StringField("username", username))
	return s.openSession(ctx, user)
}

// Login verifies the credentials and issues a session token.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout discards the session token.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to a user ID.
func (s *authService) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, entity.ErrUnauthorized
	}
	userID, ok, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, entity.ErrUnauthorized
	}
	return userID, nil
}

func (s *authService) openSession(ctx context.Context, user *entity.User) (*dto.SessionResponse, error) {
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.ID, s.sessionTTL); err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Token: token,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}
