package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when a credential record is not found.
var ErrCredentialNotFound = errors.New("credential not found")

// ErrCredentialRevoked is returned when attempting to operate on a revoked
// credential.
var ErrCredentialRevoked = errors.New("credential is revoked")

// Repository provides operations on the api_credentials table.
type Repository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByID(ctx context.Context, id uuid.UUID) (*Credential, error)
	FindByPrefix(ctx context.Context, prefix string) ([]Credential, error)
	List(ctx context.Context) ([]Credential, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
}
