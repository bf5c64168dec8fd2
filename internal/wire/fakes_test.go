package wire

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"

	"github.com/google/uuid"
)

// memDB backs the three repositories with in-memory tables that honour the
// same constraints as the Postgres schema.
type memDB struct {
	mu       sync.Mutex
	users    []*entity.User
	listings []*entity.Listing
	reviews  []*entity.Review
	pingErr  error
}

func newMemDB() *memDB {
	return &memDB{}
}

func (db *memDB) Ping(ctx context.Context) error {
	return db.pingErr
}

func (db *memDB) repository() *repository.Repository {
	return &repository.Repository{
		User:    &memUsers{db},
		Listing: &memListings{db},
		Review:  &memReviews{db},
	}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Posts = slices.Clone(u.Posts)
	return &c
}

func cloneListing(l *entity.Listing) *entity.Listing {
	c := *l
	c.Images = slices.Clone(l.Images)
	return &c
}

type memUsers struct{ db *memDB }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	r.db.users = append(r.db.users, cloneUser(user))
	return nil
}

func (r *memUsers) find(match func(*entity.User) bool) *entity.User {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *memUsers) FindAll(ctx context.Context) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.User, 0, len(r.db.users))
	for i := len(r.db.users) - 1; i >= 0; i-- {
		out = append(out, cloneUser(r.db.users[i]))
	}
	return out, nil
}

func (r *memUsers) UpdateProfile(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, u := range r.db.users {
		if u.ID == user.ID {
			r.db.users[i] = cloneUser(user)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memUsers) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := slices.IndexFunc(r.db.users, func(u *entity.User) bool { return u.ID == id })
	if idx < 0 {
		return 0, repository.ErrNotFound
	}

	removed := map[uuid.UUID]bool{}
	r.db.listings = slices.DeleteFunc(r.db.listings, func(l *entity.Listing) bool {
		if l.VendorID == id {
			removed[l.ID] = true
			return true
		}
		return false
	})
	r.db.reviews = slices.DeleteFunc(r.db.reviews, func(rv *entity.Review) bool {
		return removed[rv.ListingID]
	})
	r.db.users = slices.Delete(r.db.users, idx, idx+1)
	return int64(len(removed)), nil
}

type memListings struct{ db *memDB }

func (r *memListings) Create(ctx context.Context, listing *entity.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	idx := slices.IndexFunc(r.db.users, func(u *entity.User) bool { return u.ID == listing.VendorID })
	if idx < 0 {
		return repository.ErrReferenceNotFound
	}
	r.db.users[idx].Posts = append(r.db.users[idx].Posts, listing.ID)
	r.db.listings = append(r.db.listings, cloneListing(listing))
	return nil
}

func (r *memListings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.listings {
		if l.ID == id {
			return cloneListing(l), nil
		}
	}
	return nil, nil
}

// newest first, matching ORDER BY created_at DESC
func (r *memListings) filter(match func(*entity.Listing) bool) []*entity.Listing {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.Listing, 0, len(r.db.listings))
	for i := len(r.db.listings) - 1; i >= 0; i-- {
		if match(r.db.listings[i]) {
			out = append(out, cloneListing(r.db.listings[i]))
		}
	}
	return out
}

func (r *memListings) FindAll(ctx context.Context) ([]*entity.Listing, error) {
	return r.filter(func(*entity.Listing) bool { return true }), nil
}

func (r *memListings) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]*entity.Listing, error) {
	return r.filter(func(l *entity.Listing) bool { return l.VendorID == vendorID }), nil
}

func (r *memListings) FindAllWithVendor(ctx context.Context) ([]*entity.ListingWithVendor, error) {
	listings := r.filter(func(*entity.Listing) bool { return true })

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.ListingWithVendor, 0, len(listings))
	for _, l := range listings {
		lv := &entity.ListingWithVendor{Listing: *l}
		for _, u := range r.db.users {
			if u.ID == l.VendorID {
				lv.VendorName, lv.VendorEmail = u.Name, u.Email
			}
		}
		out = append(out, lv)
	}
	return out, nil
}

func (r *memListings) Update(ctx context.Context, listing *entity.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, l := range r.db.listings {
		if l.ID == listing.ID {
			r.db.listings[i] = cloneListing(listing)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memListings) Delete(ctx context.Context, id, vendorID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	idx := slices.IndexFunc(r.db.listings, func(l *entity.Listing) bool { return l.ID == id })
	if idx < 0 {
		return repository.ErrNotFound
	}
	r.db.listings = slices.Delete(r.db.listings, idx, idx+1)
	r.db.reviews = slices.DeleteFunc(r.db.reviews, func(rv *entity.Review) bool { return rv.ListingID == id })
	for _, u := range r.db.users {
		if u.ID == vendorID {
			u.Posts = slices.DeleteFunc(u.Posts, func(p uuid.UUID) bool { return p == id })
		}
	}
	return nil
}

func (r *memListings) ImageURLs(ctx context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, l := range r.db.listings {
		out = append(out, l.Images...)
	}
	return out, nil
}

type memReviews struct{ db *memDB }

var errForeignKey = errors.New("violates foreign key constraint \"reviews_listing_id_fkey\"")

func (r *memReviews) Create(ctx context.Context, review *entity.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !slices.ContainsFunc(r.db.listings, func(l *entity.Listing) bool { return l.ID == review.ListingID }) {
		return errors.Join(repository.ErrReferenceNotFound, errForeignKey)
	}
	c := *review
	r.db.reviews = append(r.db.reviews, &c)
	return nil
}

func (r *memReviews) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*entity.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Review
	for i := len(r.db.reviews) - 1; i >= 0; i-- {
		if r.db.reviews[i].ListingID == listingID {
			c := *r.db.reviews[i]
			out = append(out, &c)
		}
	}
	return out, nil
}
