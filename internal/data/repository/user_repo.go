package repository

import (
	"context"
	"errors"
	"fmt"

	"material-market/internal/data/entity"
	"material-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error

	// DeleteCascade removes the user and every listing they own in one transaction.
	// It returns the number of listings removed.
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, name, email, password, role, phone, address, company, posts, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&user.Address,
		&user.Company,
		&user.Posts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, phone, address, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.Address,
		user.Company,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		err = classify(err)
		if errors.Is(err, ErrDuplicate) {
			ur.log.Warn("Duplicate email on create", zap.String("email", user.Email))
		} else {
			ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		}
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

// UpdateProfile writes the editable profile fields. Role and email are not touched.
func (ur *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, address = $4, company = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Address,
		user.Company,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID.String(), ErrNotFound)
	}

	return nil
}

func (ur *userRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		ur.log.Error("Failed to begin cascade delete", zap.Error(err), zap.String("user_id", id.String()))
		return 0, fmt.Errorf("begin delete user %s: %w", id.String(), err)
	}

	// Reviews on these listings go with them through ON DELETE CASCADE.
	listings, err := tx.Exec(ctx, `DELETE FROM listings WHERE vendor_id = $1`, id)
	if err != nil {
		rollback(ctx, tx, ur.log)
		ur.log.Error("Failed to delete vendor listings", zap.Error(err), zap.String("user_id", id.String()))
		return 0, fmt.Errorf("delete listings of user %s: %w", id.String(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		rollback(ctx, tx, ur.log)
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id.String()))
		return 0, fmt.Errorf("delete user %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		rollback(ctx, tx, ur.log)
		return 0, fmt.Errorf("user %s: %w", id.String(), ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		ur.log.Error("Failed to commit cascade delete, manual reconciliation may be needed",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return 0, fmt.Errorf("commit delete user %s: %w", id.String(), err)
	}

	ur.log.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.Int64("listings_deleted", listings.RowsAffected()),
	)
	return listings.RowsAffected(), nil
}
