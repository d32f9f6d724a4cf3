package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidKey is returned when the provided API key does not match any
// active credential.
var ErrInvalidKey = errors.New("invalid or revoked API key")

// Service provides authentication operations.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// GenerateKey creates a new API key. Returns the raw key, its prefix (first
// 8 chars), and the bcrypt hash. The raw key is: 32 random bytes -> base64url
// -> prepend "hfl_".
func (s *Service) GenerateKey() (rawKey, prefix, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = "hfl_" + base64.RawURLEncoding.EncodeToString(b)
	prefix = rawKey[:8]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hashing key: %w", err)
	}
	hash = string(hashBytes)

	return rawKey, prefix, hash, nil
}

// Authenticate resolves a raw API key to an Identity. It extracts the prefix,
// looks up candidates, and bcrypt-compares each one.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if len(rawKey) < 8 {
		return nil, ErrInvalidKey
	}

	prefix := rawKey[:8]

	candidates, err := s.repo.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding credentials by prefix: %w", err)
	}

	for _, c := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(c.ApiKeyHash), []byte(rawKey)) == nil {
			return &Identity{
				CredentialID: c.ID,
				Name:         c.Name,
				CustomerID:   c.CustomerID,
				Role:         c.Role,
			}, nil
		}
	}

	return nil, ErrInvalidKey
}

// BootstrapAdmin creates the initial admin credential if the table is empty.
// Returns the raw API key (only displayed once). If credentials already
// exist, returns empty string.
func (s *Service) BootstrapAdmin(ctx context.Context) (string, error) {
	count, err := s.repo.CountAll(ctx)
	if err != nil {
		return "", fmt.Errorf("counting credentials: %w", err)
	}

	if count > 0 {
		return "", nil
	}

	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating admin key: %w", err)
	}

	cred := &Credential{
		Name:         "bootstrap-admin",
		Role:         RoleAdmin,
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		return "", fmt.Errorf("creating admin credential: %w", err)
	}

	slog.Info("Admin API key created", "key", rawKey)

	return rawKey, nil
}
