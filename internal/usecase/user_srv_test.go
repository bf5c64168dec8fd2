package usecase

import (
	"context"
	"testing"

	"material-market/internal/data/entity"
	"material-market/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_DeleteUser(t *testing.T) {
	users := map[uuid.UUID]*entity.User{}
	addUser := func(role entity.Role) *entity.User {
		u := &entity.User{Base: entity.Base{ID: uuid.New()}, Email: string(role) + "@example.com", Role: role}
		users[u.ID] = u
		return u
	}
	var cascaded []uuid.UUID
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			return users[id], nil
		},
		deleteCascadeFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			cascaded = append(cascaded, id)
			delete(users, id)
			return 2, nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	t.Run("vendor is removed with cascade", func(t *testing.T) {
		v := addUser(entity.RoleVendor)

		require.NoError(t, svc.DeleteUser(context.Background(), admin(), v.ID.String()))
		assert.Contains(t, cascaded, v.ID)
	})

	t.Run("admin target is protected", func(t *testing.T) {
		a := addUser(entity.RoleAdmin)
		before := len(cascaded)

		err := svc.DeleteUser(context.Background(), admin(), a.ID.String())

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Len(t, cascaded, before)
	})

	t.Run("missing user", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin(), uuid.NewString()), ErrNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin(), "42"), ErrValidation)
	})

	t.Run("non-admin caller", func(t *testing.T) {
		c := addUser(entity.RoleClient)
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), vendor(uuid.New()), c.ID.String()), ErrForbidden)
	})
}

func TestUserService_Profile(t *testing.T) {
	id := uuid.New()
	user := &entity.User{Base: entity.Base{ID: id}, Name: "Ann", Role: entity.RoleVendor, Company: ptr("Old")}
	svc := NewUserService(&mockUserRepo{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
			if uid == id {
				return user, nil
			}
			return nil, nil
		},
	}, zap.NewNop())

	resp, err := svc.UpdateProfile(context.Background(), id, &request.UpdateProfileRequest{Company: ptr(" New Co ")})
	require.NoError(t, err)
	require.NotNil(t, resp.Company)
	assert.Equal(t, "New Co", *resp.Company)
	assert.Equal(t, "Ann", resp.Name)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListUsers(context.Background(), client())
	assert.ErrorIs(t, err, ErrForbidden)
}
