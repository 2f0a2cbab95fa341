package domain

import "strings"

// UnnamedUser is the display fallback for users without a name.
const UnnamedUser = "Unnamed User"

// Role represents a user role as encoded by the portfolio API.
type Role int

// RoleUser and RoleAdmin mirror the API's integer role encoding.
const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

// RoleFromInt maps an API role integer onto a known Role.
// Unknown values collapse to RoleUser.
func RoleFromInt(v int) Role {
	if v == int(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// String returns the display name for the role.
func (r Role) String() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "User"
}

// User represents user data used by this package.
type User struct {
	ID    string
	Name  string
	Login string
	Role  Role
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser constructs a new value for this package.
func NewUser(id, name, login string, role int) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = UnnamedUser
	}

	return User{
		ID:    id,
		Name:  name,
		Login: strings.TrimSpace(login),
		Role:  RoleFromInt(role),
	}, nil
}
