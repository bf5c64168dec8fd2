package usecase

import (
	"fmt"

	"material-market/internal/data/entity"
	"material-market/pkg/token"
	"material-market/pkg/utils"

	"github.com/google/uuid"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Authenticate turns a raw token into a Principal. Signature and expiry
// failures are not told apart.
func Authenticate(v TokenVerifier, raw string) (utils.Principal, error) {
	if raw == "" {
		return utils.Principal{}, ErrUnauthenticated
	}

	claims, err := v.Verify(raw)
	if err != nil {
		return utils.Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return utils.Principal{}, fmt.Errorf("%w: bad subject", ErrUnauthenticated)
	}

	role := entity.Role(claims.Role)
	if !role.Valid() {
		return utils.Principal{}, fmt.Errorf("%w: unknown role %q", ErrUnauthenticated, claims.Role)
	}

	return utils.Principal{UserID: userID, Role: role}, nil
}

// RequireRole fails with ErrForbidden unless the principal holds one of the roles.
func RequireRole(p utils.Principal, allowed ...entity.Role) error {
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s not allowed", ErrForbidden, p.Role)
}

// CanMutateListing reports whether p may edit or delete l.
func CanMutateListing(p utils.Principal, l *entity.Listing) bool {
	switch p.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleVendor:
		return l.VendorID == p.UserID
	case entity.RoleClient:
		return false
	default:
		return false
	}
}

// CanDeleteUser reports whether p may delete target. Admin accounts are
// never removable through this path.
func CanDeleteUser(p utils.Principal, target *entity.User) bool {
	switch target.Role {
	case entity.RoleAdmin:
		return false
	case entity.RoleClient, entity.RoleVendor:
		return p.Role == entity.RoleAdmin
	default:
		return false
	}
}
