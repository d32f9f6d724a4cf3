package tier

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTierNotFound is returned when a tier record is not found.
var ErrTierNotFound = errors.New("tier not found")

// Repository provides read access to the loyalty tier catalog.
type Repository interface {
	ListActive(ctx context.Context) ([]Tier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tier, error)
	// EnsureDefaults seeds the standard catalog when the table is empty.
	EnsureDefaults(ctx context.Context) error
}
