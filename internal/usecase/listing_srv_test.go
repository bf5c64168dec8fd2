package usecase

import (
	"context"
	"testing"
	"time"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"
	"material-market/internal/dto/request"
	"material-market/internal/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validListingRequest() *request.CreateListingRequest {
	return &request.CreateListingRequest{
		Title:       "Coal",
		Description: "Washed steam coal",
		Price:       ptr(200.0),
		City:        "Pune",
		Phone:       "+91 98000 00000",
		Images:      []string{" /uploads/a.png "},
	}
}

func TestListingService_Create(t *testing.T) {
	vendorID := uuid.New()

	t.Run("vendor creates listing", func(t *testing.T) {
		var stored *entity.Listing
		repo := &mockListingRepo{
			createFn: func(ctx context.Context, l *entity.Listing) error {
				stored = l
				return nil
			},
		}
		svc := NewListingService(repo, zap.NewNop())

		resp, err := svc.Create(context.Background(), vendor(vendorID), validListingRequest())

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, vendorID, stored.VendorID)
		assert.Equal(t, []string{"/uploads/a.png"}, stored.Images)
		assert.Equal(t, 200.0, resp.Price)
		assert.Equal(t, vendorID.String(), resp.VendorID)
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		svc := NewListingService(&mockListingRepo{}, zap.NewNop())
		req := validListingRequest()
		req.Price = ptr(0.0)

		resp, err := svc.Create(context.Background(), vendor(vendorID), req)

		require.NoError(t, err)
		assert.Zero(t, resp.Price)
	})

	t.Run("client is forbidden", func(t *testing.T) {
		svc := NewListingService(&mockListingRepo{}, zap.NewNop())

		_, err := svc.Create(context.Background(), client(), validListingRequest())

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("vendor row gone", func(t *testing.T) {
		svc := NewListingService(&mockListingRepo{
			createFn: func(ctx context.Context, l *entity.Listing) error {
				return repository.ErrReferenceNotFound
			},
		}, zap.NewNop())

		_, err := svc.Create(context.Background(), vendor(vendorID), validListingRequest())

		assert.ErrorIs(t, err, ErrNotFound)
	})

	cases := []struct {
		name   string
		mutate func(r *request.CreateListingRequest)
		field  string
	}{
		{"missing price", func(r *request.CreateListingRequest) { r.Price = nil }, "price"},
		{"negative price", func(r *request.CreateListingRequest) { r.Price = ptr(-1.0) }, "price"},
		{"blank title", func(r *request.CreateListingRequest) { r.Title = "  " }, "title"},
		{"missing city", func(r *request.CreateListingRequest) { r.City = "" }, "city"},
		{"too many images", func(r *request.CreateListingRequest) { r.Images = []string{"a", "b", "c", "d", "e", "f"} }, "images"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewListingService(&mockListingRepo{
				createFn: func(ctx context.Context, l *entity.Listing) error {
					t.Fatal("create must not be called")
					return nil
				},
			}, zap.NewNop())
			req := validListingRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), vendor(vendorID), req)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestListingService_UpdateDelete(t *testing.T) {
	owner := uuid.New()
	listing := func() *entity.Listing {
		return &entity.Listing{
			Base:     entity.Base{ID: uuid.New()},
			VendorID: owner,
			Title:    "Coal",
			Price:    200,
			City:     "Pune",
		}
	}

	t.Run("owner updates only sent fields", func(t *testing.T) {
		l := listing()
		var saved *entity.Listing
		svc := NewListingService(&mockListingRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) { return l, nil },
			updateFn: func(ctx context.Context, listing *entity.Listing) error {
				saved = listing
				return nil
			},
		}, zap.NewNop())

		resp, err := svc.Update(context.Background(), vendor(owner), l.ID.String(), &request.UpdateListingRequest{
			Price: ptr(150.0),
		})

		require.NoError(t, err)
		assert.Equal(t, 150.0, resp.Price)
		assert.Equal(t, "Coal", saved.Title)
		assert.Equal(t, "Pune", saved.City)
	})

	t.Run("other vendor is forbidden before validation", func(t *testing.T) {
		l := listing()
		svc := NewListingService(&mockListingRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) { return l, nil },
			updateFn: func(ctx context.Context, listing *entity.Listing) error {
				t.Fatal("update must not be called")
				return nil
			},
		}, zap.NewNop())

		_, err := svc.Update(context.Background(), vendor(uuid.New()), l.ID.String(), &request.UpdateListingRequest{
			Price: ptr(-5.0),
		})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin may update any listing", func(t *testing.T) {
		l := listing()
		svc := NewListingService(&mockListingRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) { return l, nil },
		}, zap.NewNop())

		_, err := svc.Update(context.Background(), admin(), l.ID.String(), &request.UpdateListingRequest{City: ptr("Mumbai")})

		assert.NoError(t, err)
	})

	t.Run("unknown listing", func(t *testing.T) {
		svc := NewListingService(&mockListingRepo{}, zap.NewNop())

		_, err := svc.Update(context.Background(), vendor(owner), uuid.NewString(), &request.UpdateListingRequest{})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.Update(context.Background(), vendor(owner), "not-a-uuid", &request.UpdateListingRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("admin delete passes the owner to the repository", func(t *testing.T) {
		l := listing()
		var gotID, gotVendor uuid.UUID
		svc := NewListingService(&mockListingRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) { return l, nil },
			deleteFn: func(ctx context.Context, id, vendorID uuid.UUID) error {
				gotID, gotVendor = id, vendorID
				return nil
			},
		}, zap.NewNop())

		require.NoError(t, svc.Delete(context.Background(), admin(), l.ID.String()))
		assert.Equal(t, l.ID, gotID)
		assert.Equal(t, owner, gotVendor)
	})

	t.Run("client cannot delete", func(t *testing.T) {
		l := listing()
		svc := NewListingService(&mockListingRepo{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Listing, error) { return l, nil },
		}, zap.NewNop())

		assert.ErrorIs(t, svc.Delete(context.Background(), client(), l.ID.String()), ErrForbidden)
	})
}

func TestListingService_List(t *testing.T) {
	now := time.Now()
	listings := []*entity.Listing{
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now}, Title: "Coal", City: "Pune", Price: 200},
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}, Title: "Coal", City: "Delhi", Price: 900},
		{Base: entity.Base{ID: uuid.New(), CreatedAt: now.Add(-2 * time.Hour)}, Title: "Sand", City: "Pune", Price: 50},
	}
	svc := NewListingService(&mockListingRepo{
		findAllFn: func(ctx context.Context) ([]*entity.Listing, error) { return listings, nil },
	}, zap.NewNop())

	all, err := svc.List(context.Background(), search.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := svc.List(context.Background(), search.Filter{City: "pune", Name: "COAL", MaxPrice: ptr(500.0)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, listings[0].ID.String(), got[0].ID)
}

func TestListingService_ListWithVendor(t *testing.T) {
	svc := NewListingService(&mockListingRepo{
		findAllWithVendorFn: func(ctx context.Context) ([]*entity.ListingWithVendor, error) {
			return []*entity.ListingWithVendor{{
				Listing:     entity.Listing{Base: entity.Base{ID: uuid.New()}, Title: "Coal"},
				VendorName:  "Steel Co",
				VendorEmail: "sales@steel.example",
			}}, nil
		},
	}, zap.NewNop())

	_, err := svc.ListWithVendor(context.Background(), vendor(uuid.New()))
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.ListWithVendor(context.Background(), admin())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Steel Co", got[0].Vendor.Name)
}
