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

type ListingRepository interface {
	// Create stores the listing and appends its id to the vendor's post set.
	Create(ctx context.Context, listing *entity.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	FindAll(ctx context.Context) ([]*entity.Listing, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]*entity.Listing, error)
	FindAllWithVendor(ctx context.Context) ([]*entity.ListingWithVendor, error)
	Update(ctx context.Context, listing *entity.Listing) error
	// Delete removes the listing and pulls its id from the owner's post set.
	Delete(ctx context.Context, id, vendorID uuid.UUID) error
	// ImageURLs lists every image URL still referenced by a listing.
	ImageURLs(ctx context.Context) ([]string, error)
}

type listingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewListingRepository(db database.PgxIface, log *zap.Logger) ListingRepository {
	return &listingRepository{
		db:  db,
		log: log.With(zap.String("repository", "listing")),
	}
}

const listingColumns = `l.id, l.vendor_id, l.title, l.description, l.price, l.city, l.phone, l.images, l.created_at, l.updated_at`

func listingDest(l *entity.Listing) []any {
	return []any{
		&l.ID,
		&l.VendorID,
		&l.Title,
		&l.Description,
		&l.Price,
		&l.City,
		&l.Phone,
		&l.Images,
		&l.CreatedAt,
		&l.UpdatedAt,
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin create listing", zap.Error(err))
		return fmt.Errorf("begin create listing: %w", err)
	}

	insert := `
		INSERT INTO listings (id, vendor_id, title, description, price, city, phone, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, insert,
		listing.ID,
		listing.VendorID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.City,
		listing.Phone,
		listing.Images,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		rollback(ctx, tx, r.log)
		err = classify(err)
		r.log.Error("Failed to create listing",
			zap.Error(err),
			zap.String("vendor_id", listing.VendorID.String()),
		)
		return fmt.Errorf("create listing for vendor %s: %w", listing.VendorID.String(), err)
	}

	result, err := tx.Exec(ctx, `UPDATE users SET posts = array_append(posts, $1) WHERE id = $2`, listing.ID, listing.VendorID)
	if err != nil {
		rollback(ctx, tx, r.log)
		r.log.Error("Failed to append listing to vendor", zap.Error(err), zap.String("vendor_id", listing.VendorID.String()))
		return fmt.Errorf("append listing %s to vendor %s: %w", listing.ID.String(), listing.VendorID.String(), err)
	}
	if result.RowsAffected() == 0 {
		rollback(ctx, tx, r.log)
		return fmt.Errorf("vendor %s: %w", listing.VendorID.String(), ErrReferenceNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit create listing", zap.Error(err))
		return fmt.Errorf("commit create listing: %w", err)
	}

	return nil
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l WHERE l.id = $1`

	var listing entity.Listing
	err := r.db.QueryRow(ctx, query, id).Scan(listingDest(&listing)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find listing by ID", zap.Error(err), zap.String("listing_id", id.String()))
		return nil, fmt.Errorf("find listing by ID %s: %w", id.String(), err)
	}

	return &listing, nil
}

func (r *listingRepository) FindAll(ctx context.Context) ([]*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l ORDER BY l.created_at DESC`
	return r.list(ctx, "find all listings", query)
}

func (r *listingRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l WHERE l.vendor_id = $1 ORDER BY l.created_at DESC`
	return r.list(ctx, "find listings by vendor "+vendorID.String(), query, vendorID)
}

func (r *listingRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Listing, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query listings", zap.Error(err), zap.String("operation", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	listings := make([]*entity.Listing, 0)
	for rows.Next() {
		var listing entity.Listing
		if err := rows.Scan(listingDest(&listing)...); err != nil {
			r.log.Error("Failed to scan listing row", zap.Error(err))
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, &listing)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}

func (r *listingRepository) FindAllWithVendor(ctx context.Context) ([]*entity.ListingWithVendor, error) {
	query := `
		SELECT ` + listingColumns + `, u.name, u.email
		FROM listings l
		JOIN users u ON u.id = l.vendor_id
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query listings with vendor", zap.Error(err))
		return nil, fmt.Errorf("find listings with vendor: %w", err)
	}
	defer rows.Close()

	listings := make([]*entity.ListingWithVendor, 0)
	for rows.Next() {
		var item entity.ListingWithVendor
		dest := append(listingDest(&item.Listing), &item.VendorName, &item.VendorEmail)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan listing row", zap.Error(err))
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, price = $4, city = $5, phone = $6, images = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.City,
		listing.Phone,
		listing.Images,
		listing.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update listing", zap.Error(err), zap.String("listing_id", listing.ID.String()))
		return fmt.Errorf("update listing %s: %w", listing.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", listing.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id, vendorID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin delete listing", zap.Error(err))
		return fmt.Errorf("begin delete listing %s: %w", id.String(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		rollback(ctx, tx, r.log)
		r.log.Error("Failed to delete listing", zap.Error(err), zap.String("listing_id", id.String()))
		return fmt.Errorf("delete listing %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		rollback(ctx, tx, r.log)
		return fmt.Errorf("listing %s: %w", id.String(), ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET posts = array_remove(posts, $1) WHERE id = $2`, id, vendorID); err != nil {
		rollback(ctx, tx, r.log)
		r.log.Error("Failed to pull listing from vendor", zap.Error(err), zap.String("vendor_id", vendorID.String()))
		return fmt.Errorf("pull listing %s from vendor %s: %w", id.String(), vendorID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit delete listing", zap.Error(err))
		return fmt.Errorf("commit delete listing %s: %w", id.String(), err)
	}

	r.log.Info("Listing deleted", zap.String("listing_id", id.String()))
	return nil
}

func (r *listingRepository) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT unnest(images) FROM listings`)
	if err != nil {
		r.log.Error("Failed to list image urls", zap.Error(err))
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image urls: %w", err)
	}

	return urls, nil
}
