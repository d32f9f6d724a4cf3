package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new credential record.
func (r *PostgresRepository) Create(ctx context.Context, c *Credential) error {
	query := `
		INSERT INTO api_credentials (name, customer_id, role, api_key_prefix, api_key_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		c.Name,
		c.CustomerID,
		c.Role,
		c.ApiKeyPrefix,
		c.ApiKeyHash,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting credential: %w", err)
	}

	return nil
}

// GetByID retrieves a single credential by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Credential, error) {
	query := `
		SELECT id, name, customer_id, role, api_key_prefix, api_key_hash,
		       created_at, revoked_at
		FROM api_credentials
		WHERE id = $1`

	var c Credential
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.CustomerID, &c.Role,
		&c.ApiKeyPrefix, &c.ApiKeyHash,
		&c.CreatedAt, &c.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("querying credential: %w", err)
	}

	return &c, nil
}

// FindByPrefix returns active (non-revoked) credentials matching the given
// API key prefix.
func (r *PostgresRepository) FindByPrefix(ctx context.Context, prefix string) ([]Credential, error) {
	query := `
		SELECT id, name, customer_id, role, api_key_prefix, api_key_hash,
		       created_at, revoked_at
		FROM api_credentials
		WHERE api_key_prefix = $1 AND revoked_at IS NULL`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding credentials by prefix: %w", err)
	}
	defer rows.Close()

	return scanCredentials(rows)
}

// List retrieves all credentials, ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Credential, error) {
	query := `
		SELECT id, name, customer_id, role, api_key_prefix, api_key_hash,
		       created_at, revoked_at
		FROM api_credentials
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	defer rows.Close()

	return scanCredentials(rows)
}

// Revoke sets revoked_at on a credential. Returns ErrCredentialNotFound if it
// does not exist, and ErrCredentialRevoked if already revoked.
func (r *PostgresRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE api_credentials
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("revoking credential: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish not-found from already-revoked
		var exists bool
		err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM api_credentials WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking credential existence: %w", err)
		}
		if !exists {
			return ErrCredentialNotFound
		}
		return ErrCredentialRevoked
	}

	return nil
}

// CountAll returns the total number of credentials (including revoked).
func (r *PostgresRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM api_credentials").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting credentials: %w", err)
	}
	return count, nil
}

func scanCredentials(rows pgx.Rows) ([]Credential, error) {
	var creds []Credential
	for rows.Next() {
		var c Credential
		err := rows.Scan(
			&c.ID, &c.Name, &c.CustomerID, &c.Role,
			&c.ApiKeyPrefix, &c.ApiKeyHash,
			&c.CreatedAt, &c.RevokedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning credential row: %w", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credential rows: %w", err)
	}

	if creds == nil {
		creds = []Credential{}
	}

	return creds, nil
}
