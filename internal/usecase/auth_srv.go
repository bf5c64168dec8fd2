package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"
	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID, role string) (string, time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// EnsureAdmin creates the admin account if the email is not taken yet.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type authService struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
	log      *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validasi input, on the trimmed values that get stored
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	role, err := entity.ParseRole(req.Role)
	if err != nil || role == entity.RoleAdmin {
		return nil, invalidFields(map[string]string{"role": "Must be one of: client, vendor"})
	}

	email := req.Email

	// 2. Cek email sudah terdaftar
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		s.log.Warn("Register with existing email", zap.String("email", email))
		return nil, ErrDuplicateEmail
	}

	// 3. Hash password
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        utils.TrimPtr(req.Phone),
		Address:      utils.TrimPtr(req.Address),
		Company:      utils.TrimPtr(req.Company),
	}

	// 4. Simpan user; the unique index catches a concurrent register
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		// Burn the same bcrypt time as a real comparison.
		utils.CheckPasswordHash(req.Password, s.fallbackHash())
		s.log.Warn("Login for unknown email")
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			s.log.Warn("Admin seed email belongs to a non-admin account", zap.String("email", email))
		}
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	admin := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("Admin account created", zap.String("email", email))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	signed, expiresAt, err := s.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      response.UserToPublic(user),
	}, nil
}

func (s *authService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword(uuid.NewString())
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
