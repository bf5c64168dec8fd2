package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of account kinds. Anything outside it is rejected
// at parse time so the authorization gate never sees an unknown value.
type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleVendor, RoleAdmin:
		return Role(s), nil
	case "":
		return RoleClient, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	PasswordHash string      `db:"password"`
	Role         Role        `db:"role"`
	Phone        *string     `db:"phone"`
	Address      *string     `db:"address"`
	Company      *string     `db:"company"`
	Posts        []uuid.UUID `db:"posts"`
}
