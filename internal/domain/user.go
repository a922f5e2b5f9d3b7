package domain

import "time"

// Roles recognized by the role gate.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "petugas"
	RoleUser    = "user"
)

// User is an account that can authenticate against the API.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID string
	Role   string
}

type ctxKey string

// IdentityCtxKey carries the authenticated Identity in a context.
const IdentityCtxKey ctxKey = "identity"
