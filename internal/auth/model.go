package auth

import (
	"time"

	"github.com/google/uuid"
)

// Credential roles. Admins manage the program, services are trusted backend
// callers (the booking workflow), customers act on their own account only.
const (
	RoleAdmin    = "admin"
	RoleService  = "service"
	RoleCustomer = "customer"
)

// ValidRole reports whether role is one of the known credential roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleService, RoleCustomer:
		return true
	}
	return false
}

// Credential represents a row in the api_credentials table.
type Credential struct {
	ID           uuid.UUID
	Name         string
	CustomerID   *uuid.UUID // set for customer credentials only
	Role         string
	ApiKeyPrefix string
	ApiKeyHash   string
	CreatedAt    time.Time
	RevokedAt    *time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	CredentialID uuid.UUID
	Name         string
	CustomerID   *uuid.UUID // nil unless the credential is customer-bound
	Role         string
}
