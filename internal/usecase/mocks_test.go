package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"material-market/internal/data/entity"
	"material-market/pkg/token"
	"material-market/pkg/utils"

	"github.com/google/uuid"
)

// ==================== repository mocks ====================

type mockUserRepo struct {
	createFn        func(ctx context.Context, user *entity.User) error
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*entity.User, error)
	findAllFn       func(ctx context.Context) ([]*entity.User, error)
	updateProfileFn func(ctx context.Context, user *entity.User) error
	deleteCascadeFn func(ctx context.Context, id uuid.UUID) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*entity.User, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *entity.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.deleteCascadeFn != nil {
		return m.deleteCascadeFn(ctx, id)
	}
	return 0, nil
}

type mockListingRepo struct {
	createFn            func(ctx context.Context, listing *entity.Listing) error
	findByIDFn          func(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	findAllFn           func(ctx context.Context) ([]*entity.Listing, error)
	findByVendorFn      func(ctx context.Context, vendorID uuid.UUID) ([]*entity.Listing, error)
	findAllWithVendorFn func(ctx context.Context) ([]*entity.ListingWithVendor, error)
	updateFn            func(ctx context.Context, listing *entity.Listing) error
	deleteFn            func(ctx context.Context, id, vendorID uuid.UUID) error
	imageURLsFn         func(ctx context.Context) ([]string, error)
}

func (m *mockListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, listing)
	}
	return nil
}

func (m *mockListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockListingRepo) FindAll(ctx context.Context) ([]*entity.Listing, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockListingRepo) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]*entity.Listing, error) {
	if m.findByVendorFn != nil {
		return m.findByVendorFn(ctx, vendorID)
	}
	return nil, nil
}

func (m *mockListingRepo) FindAllWithVendor(ctx context.Context) ([]*entity.ListingWithVendor, error) {
	if m.findAllWithVendorFn != nil {
		return m.findAllWithVendorFn(ctx)
	}
	return nil, nil
}

func (m *mockListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, listing)
	}
	return nil
}

func (m *mockListingRepo) Delete(ctx context.Context, id, vendorID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, vendorID)
	}
	return nil
}

func (m *mockListingRepo) ImageURLs(ctx context.Context) ([]string, error) {
	if m.imageURLsFn != nil {
		return m.imageURLsFn(ctx)
	}
	return nil, nil
}

type mockReviewRepo struct {
	createFn          func(ctx context.Context, review *entity.Review) error
	findByListingIDFn func(ctx context.Context, listingID uuid.UUID) ([]*entity.Review, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if m.createFn != nil {
		return m.createFn(ctx, review)
	}
	return nil
}

func (m *mockReviewRepo) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*entity.Review, error) {
	if m.findByListingIDFn != nil {
		return m.findByListingIDFn(ctx, listingID)
	}
	return nil, nil
}

// ==================== other collaborators ====================

type stubIssuer struct{}

func (stubIssuer) Issue(userID uuid.UUID, role string) (string, time.Time, error) {
	return "token-" + userID.String() + "-" + role, time.Unix(0, 0).Add(24 * time.Hour), nil
}

type stubVerifier struct {
	claims *token.Claims
	err    error
}

func (v stubVerifier) Verify(string) (*token.Claims, error) {
	return v.claims, v.err
}

// memStore is an in-memory BlobStore. failOn makes Save fail for the n-th call (1-based).
type memStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	calls  int
	failOn int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(name string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failOn > 0 && s.calls == s.failOn {
		return 0, errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.files[name] = data
	return int64(len(data)), nil
}

func (s *memStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("%s: not found", name)
	}
	delete(s.files, name)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// ==================== fixtures ====================

func vendor(id uuid.UUID) utils.Principal {
	return utils.Principal{UserID: id, Role: entity.RoleVendor}
}

func admin() utils.Principal {
	return utils.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
}

func client() utils.Principal {
	return utils.Principal{UserID: uuid.New(), Role: entity.RoleClient}
}

func ptr[T any](v T) *T { return &v }

func memFile(name string, data []byte) UploadFile {
	return UploadFile{
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpgHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00")
)
