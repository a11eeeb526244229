package models

import (
	"encoding/json"
	"fmt"
)

// Role enumerates the kinds of accounts the backend issues sessions for.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// ParseRole validates a role coming from user input or the backend.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCustomer, RoleEmployee, RoleManager:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// UnmarshalJSON rejects roles the front end does not know how to serve.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode role: %w", err)
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Staff reports whether the role may use employee tooling.
func (r Role) Staff() bool {
	return r == RoleEmployee || r == RoleManager
}

// User is the authenticated identity attached to the current browser session.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"user_type"`
	ID       Int    `json:"id"`
}

// HasRole reports whether the user holds one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType Role   `json:"user_type"`
}
