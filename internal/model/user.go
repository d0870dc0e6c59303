package model

import "time"

// Staff roles.  Role checks happen at the routing layer; handlers and
// the lifecycle service never compare role strings themselves.
const (
	RoleWaiter       = "waiter"
	RoleCashier      = "cashier"
	RoleManager      = "manager"
	RoleAdmin        = "admin"
	RoleKitchenStaff = "kitchen_staff"
)

// ValidRole reports whether the given role is part of the closed set
// accepted at signup.
func ValidRole(role string) bool {
	switch role {
	case RoleWaiter, RoleCashier, RoleManager, RoleAdmin, RoleKitchenStaff:
		return true
	}
	return false
}

// User mirrors the 'users' table.  Accounts stay locked out of login
// until the verification link sent at signup has been followed.
type User struct {
	ID              uint64     `json:"_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	VerifyToken     string     `json:"-"`
	VerifyExpires   *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
