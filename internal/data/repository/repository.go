package repository

import (
	"context"
	"errors"

	"material-market/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenceNotFound is returned when a foreign key points nowhere.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository struct {
	User    UserRepository
	Listing ListingRepository
	Review  ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Listing: NewListingRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}

// classify maps constraint violations onto the package sentinels.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenceNotFound, err)
		}
	}
	return err
}

func rollback(ctx context.Context, tx pgx.Tx, log *zap.Logger) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error("Failed to rollback transaction", zap.Error(err))
	}
}
