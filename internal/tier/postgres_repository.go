package tier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// allColumns is the ordered list of columns scanned from the loyalty_tiers table.
const allColumns = `id, name, min_nights, benefits, color, points_multiplier,
	sort_order, is_active, created_at, updated_at`

// scanTier scans a single Tier from a row.
func scanTier(row pgx.Row) (*Tier, error) {
	var t Tier
	err := row.Scan(
		&t.ID, &t.Name, &t.MinNights, &t.Benefits, &t.Color,
		&t.PointsMultiplier, &t.SortOrder, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("scanning tier row: %w", err)
	}
	return &t, nil
}

// ListActive retrieves all active tiers ordered by sort order.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Tier, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM loyalty_tiers
		WHERE is_active = TRUE
		ORDER BY sort_order ASC`, allColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tiers: %w", err)
	}
	defer rows.Close()

	var tiers []Tier
	for rows.Next() {
		var t Tier
		err := rows.Scan(
			&t.ID, &t.Name, &t.MinNights, &t.Benefits, &t.Color,
			&t.PointsMultiplier, &t.SortOrder, &t.IsActive,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning tier row: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tier rows: %w", err)
	}

	if tiers == nil {
		tiers = []Tier{}
	}

	return tiers, nil
}

// GetByID retrieves a single tier by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Tier, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_tiers WHERE id = $1`, allColumns)
	return scanTier(r.pool.QueryRow(ctx, query, id))
}

// EnsureDefaults seeds the standard catalog when the loyalty_tiers table is
// empty. An already populated catalog, even a partial one, is left untouched
// so administrator edits survive restarts.
func (r *PostgresRepository) EnsureDefaults(ctx context.Context) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loyalty_tiers`).Scan(&count); err != nil {
		return fmt.Errorf("counting tiers: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO loyalty_tiers (name, min_nights, benefits, color, points_multiplier, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING`

	for _, d := range Defaults {
		_, err := r.pool.Exec(ctx, query,
			d.Name, d.MinNights, d.Benefits, d.Color, d.PointsMultiplier, d.SortOrder,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				continue
			}
			return fmt.Errorf("seeding tier %q: %w", d.Name, err)
		}
	}

	return nil
}
