package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"
	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)

	// Admin
	ListUsers(ctx context.Context, p utils.Principal) ([]response.UserResponse, error)
	DeleteUser(ctx context.Context, p utils.Principal, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	// Only fields present in the request change.
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = utils.TrimPtr(req.Phone)
	}
	if req.Address != nil {
		user.Address = utils.TrimPtr(req.Address)
	}
	if req.Company != nil {
		user.Company = utils.TrimPtr(req.Company)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := us.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) ListUsers(ctx context.Context, p utils.Principal) ([]response.UserResponse, error) {
	if err := RequireRole(p, entity.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := us.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return response.UsersToResponse(users), nil
}

func (us *userService) DeleteUser(ctx context.Context, p utils.Principal, userID string) error {
	if err := RequireRole(p, entity.RoleAdmin); err != nil {
		return err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return invalid("invalid user ID")
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	if !CanDeleteUser(p, user) {
		us.log.Warn("Attempt to delete protected user",
			zap.String("target_id", userID),
			zap.String("actor_id", p.UserID.String()),
		)
		return fmt.Errorf("%w: admin users cannot be deleted", ErrForbidden)
	}

	removed, err := us.userRepo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted",
		zap.String("user_id", userID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.Int64("listings_removed", removed),
	)
	return nil
}
