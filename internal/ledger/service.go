package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thehfhotel/loyalty-backend/internal/metrics"
	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

// Engine is the single mutation path for loyalty accounts. Every
// balance-affecting operation appends a ledger entry, updates the projection
// and re-resolves the tier inside one database transaction, serialized per
// customer by a row lock on the projection. Reads never mutate, with the one
// documented exception of GetStanding's lazy enrollment.
type Engine interface {
	EnsureEnrolled(ctx context.Context, customerID uuid.UUID) error
	Award(ctx context.Context, p AwardParams) (*TransactionResult, error)
	Deduct(ctx context.Context, p DeductParams) (*TransactionResult, error)
	Expire(ctx context.Context, customerID, transactionID uuid.UUID) (*ExpireResult, error)
	Recalculate(ctx context.Context, customerID uuid.UUID) (*Standing, error)
	GetStanding(ctx context.Context, customerID uuid.UUID) (*Standing, error)
	GetHistory(ctx context.Context, customerID uuid.UUID, page, limit int) (*HistoryPage, error)
	GetAllStandings(ctx context.Context, filter ListFilter) (*StandingsPage, error)
	GetAdminEntries(ctx context.Context, page, limit int) (*HistoryPage, error)
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]ExpirableTransaction, error)
}

// Service implements Engine on a Postgres pool.
type Service struct {
	pool *pgxpool.Pool
}

var _ Engine = (*Service)(nil)

// NewService creates a ledger Service backed by the given connection pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// querier is the querying subset shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertAccountSQL creates a projection row enrolled into the base tier.
// The SELECT yields no row when the tier catalog has no active entry, and
// ON CONFLICT makes a racing second enrollment a no-op.
const insertAccountSQL = `
	INSERT INTO loyalty_accounts (customer_id, tier_id)
	SELECT $1, id
	FROM loyalty_tiers
	WHERE is_active = TRUE
	ORDER BY sort_order ASC
	LIMIT 1
	ON CONFLICT (customer_id) DO NOTHING`

const accountColumns = `customer_id, current_points, total_nights, tier_id,
	tier_updated_at, points_updated_at, created_at, updated_at`

const transactionColumns = `id, customer_id, points, nights, type, description,
	reference_id, admin_actor_id, admin_reason, expires_at, created_at`

// EnsureEnrolled creates the customer's projection row if absent. It is
// idempotent: when the row already exists nothing is written and the existing
// balances are preserved.
func (s *Service) EnsureEnrolled(ctx context.Context, customerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, insertAccountSQL, customerID)
	if err != nil {
		return fmt.Errorf("enrolling loyalty account: %w", err)
	}
	if tag.RowsAffected() > 0 {
		slog.Info("loyalty account enrolled", "customerId", customerID)
		return nil
	}

	// Zero rows written: either the account already exists, or there was no
	// active tier to enroll into.
	var exists bool
	err = s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loyalty_accounts WHERE customer_id = $1)`, customerID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking loyalty account: %w", err)
	}
	if !exists {
		return tier.ErrNoActiveTiers
	}
	return nil
}

// Award appends a credit entry and applies its deltas.
func (s *Service) Award(ctx context.Context, p AwardParams) (*TransactionResult, error) {
	if p.Points < 0 || p.Nights < 0 || (p.Points == 0 && p.Nights == 0) {
		return nil, ErrInvalidAmount
	}
	if !p.Type.Valid() || !p.Type.IsCredit() {
		return nil, ErrInvalidType
	}

	return s.apply(ctx, txnSpec{
		customerID:   p.CustomerID,
		points:       p.Points,
		nights:       p.Nights,
		typ:          p.Type,
		description:  p.Description,
		referenceID:  p.ReferenceID,
		adminActorID: p.AdminActorID,
		adminReason:  p.AdminReason,
		expiresAt:    p.ExpiresAt,
	})
}

// Deduct appends a debit entry after verifying, under the same row lock that
// the write will hold, that the account can afford both deltas.
func (s *Service) Deduct(ctx context.Context, p DeductParams) (*TransactionResult, error) {
	if p.Points < 0 || p.Nights < 0 || (p.Points == 0 && p.Nights == 0) {
		return nil, ErrInvalidAmount
	}
	if !p.Type.Valid() || !p.Type.IsDebit() || p.Type == TypeExpired {
		return nil, ErrInvalidType
	}

	return s.apply(ctx, txnSpec{
		customerID:     p.CustomerID,
		points:         -p.Points,
		nights:         -p.Nights,
		typ:            p.Type,
		description:    p.Description,
		referenceID:    p.ReferenceID,
		adminActorID:   p.AdminActorID,
		adminReason:    p.AdminReason,
		enforceBalance: true,
	})
}

// txnSpec is a validated, signed ledger append.
type txnSpec struct {
	customerID     uuid.UUID
	points         int
	nights         int
	typ            TransactionType
	description    string
	referenceID    *string
	adminActorID   *uuid.UUID
	adminReason    *string
	expiresAt      *time.Time
	enforceBalance bool
}

// apply is the engine's one write path: lock the projection row, optionally
// check the balance, append the entry, update the projection and re-resolve
// the tier, all in one transaction.
func (s *Service) apply(ctx context.Context, spec txnSpec) (*TransactionResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	acct, err := s.lockAccount(ctx, tx, spec.customerID, true)
	if err != nil {
		return nil, err
	}

	if spec.enforceBalance {
		if -spec.points > acct.CurrentPoints || -spec.nights > acct.TotalNights {
			return nil, ErrInsufficientBalance
		}
	}

	var txnID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO points_transactions
			(customer_id, points, nights, type, description, reference_id,
			 admin_actor_id, admin_reason, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		spec.customerID, spec.points, spec.nights, string(spec.typ), spec.description,
		spec.referenceID, spec.adminActorID, spec.adminReason, spec.expiresAt,
	).Scan(&txnID)
	if err != nil {
		return nil, fmt.Errorf("appending points transaction: %w", err)
	}

	newPoints := acct.CurrentPoints + spec.points
	newNights := acct.TotalNights + spec.nights

	tiers, err := s.activeTiers(ctx, tx)
	if err != nil {
		return nil, err
	}
	resolved, err := tier.Resolve(tiers, newNights)
	if err != nil {
		return nil, err
	}
	tierChanged := resolved.ID != acct.TierID

	if tierChanged {
		_, err = tx.Exec(ctx, `
			UPDATE loyalty_accounts
			SET current_points = $1, total_nights = $2, tier_id = $3,
			    tier_updated_at = NOW(), points_updated_at = NOW(), updated_at = NOW()
			WHERE customer_id = $4`,
			newPoints, newNights, resolved.ID, spec.customerID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE loyalty_accounts
			SET current_points = $1, total_nights = $2,
			    points_updated_at = NOW(), updated_at = NOW()
			WHERE customer_id = $3`,
			newPoints, newNights, spec.customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("updating loyalty account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing ledger transaction: %w", err)
	}

	metrics.LedgerTransactionsTotal.WithLabelValues(string(spec.typ)).Inc()
	if tierChanged {
		slog.Info("loyalty tier changed",
			"customerId", spec.customerID,
			"tier", resolved.Name,
			"totalNights", newNights,
		)
	}

	return &TransactionResult{
		TransactionID: txnID,
		Points:        spec.points,
		Nights:        spec.nights,
		NewPoints:     newPoints,
		NewNights:     newNights,
		Tier:          *resolved,
		TierChanged:   tierChanged,
	}, nil
}

// Expire appends the compensating entry for one earned transaction whose
// points are past their expiry. Idempotent per source transaction: the
// compensating entry references the source id, and a second call observes it
// and writes nothing. Nights and tier are never touched.
func (s *Service) Expire(ctx context.Context, customerID, transactionID uuid.UUID) (*ExpireResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning expire transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	acct, err := s.lockAccount(ctx, tx, customerID, false)
	if err != nil {
		return nil, err
	}

	src, err := s.getTransaction(ctx, tx, customerID, transactionID)
	if err != nil {
		return nil, err
	}
	if src.ExpiresAt == nil || src.Points <= 0 ||
		(src.Type != TypeEarnedStay && src.Type != TypeEarnedBonus) {
		return nil, ErrNotExpirable
	}

	sourceRef := src.ID.String()

	var already bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM points_transactions
			WHERE type = 'expired' AND reference_id = $1
		)`, sourceRef,
	).Scan(&already)
	if err != nil {
		return nil, fmt.Errorf("checking prior expiry: %w", err)
	}
	if already {
		return &ExpireResult{AlreadyExpired: true, NewPoints: acct.CurrentPoints}, nil
	}

	// A customer may have spent some of the earned points already; only what
	// is still on the balance can expire.
	amount := src.Points
	if amount > acct.CurrentPoints {
		amount = acct.CurrentPoints
	}

	description := fmt.Sprintf("Points expired (earned %s)", src.CreatedAt.UTC().Format("2006-01-02"))
	_, err = tx.Exec(ctx, `
		INSERT INTO points_transactions (customer_id, points, type, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)`,
		customerID, -amount, string(TypeExpired), description, sourceRef,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &ExpireResult{AlreadyExpired: true, NewPoints: acct.CurrentPoints}, nil
		}
		return nil, fmt.Errorf("appending expiry transaction: %w", err)
	}

	newPoints := acct.CurrentPoints - amount
	_, err = tx.Exec(ctx, `
		UPDATE loyalty_accounts
		SET current_points = $1, points_updated_at = NOW(), updated_at = NOW()
		WHERE customer_id = $2`,
		newPoints, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating loyalty account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing expire transaction: %w", err)
	}

	metrics.LedgerTransactionsTotal.WithLabelValues(string(TypeExpired)).Inc()
	metrics.PointsExpiredTotal.Add(float64(amount))

	return &ExpireResult{PointsExpired: amount, NewPoints: newPoints}, nil
}

// Recalculate re-derives the tier from the account's total nights. Used after
// administrators edit the tier catalog; balances are not touched.
func (s *Service) Recalculate(ctx context.Context, customerID uuid.UUID) (*Standing, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning recalculate transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	acct, err := s.lockAccount(ctx, tx, customerID, true)
	if err != nil {
		return nil, err
	}

	tiers, err := s.activeTiers(ctx, tx)
	if err != nil {
		return nil, err
	}
	resolved, err := tier.Resolve(tiers, acct.TotalNights)
	if err != nil {
		return nil, err
	}

	if resolved.ID != acct.TierID {
		_, err = tx.Exec(ctx, `
			UPDATE loyalty_accounts
			SET tier_id = $1, tier_updated_at = NOW(), updated_at = NOW()
			WHERE customer_id = $2`,
			resolved.ID, customerID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating loyalty account tier: %w", err)
		}
		slog.Info("loyalty tier recalculated",
			"customerId", customerID,
			"tier", resolved.Name,
		)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing recalculate transaction: %w", err)
	}

	return buildStanding(acct, resolved, tiers), nil
}

// GetStanding returns the customer's current position, enrolling them first
// if they have no projection yet.
func (s *Service) GetStanding(ctx context.Context, customerID uuid.UUID) (*Standing, error) {
	if err := s.EnsureEnrolled(ctx, customerID); err != nil {
		return nil, err
	}

	acct, err := s.getAccount(ctx, s.pool, customerID)
	if err != nil {
		return nil, err
	}

	tiers, err := s.activeTiers(ctx, s.pool)
	if err != nil {
		return nil, err
	}

	current := findTier(tiers, acct.TierID)
	if current == nil {
		// The stored tier was deactivated since it was derived; resolve fresh
		// without writing (the next mutation will persist the correction).
		current, err = tier.Resolve(tiers, acct.TotalNights)
		if err != nil {
			return nil, err
		}
	}

	return buildStanding(acct, current, tiers), nil
}

// GetHistory returns one page of the customer's ledger, newest first.
func (s *Service) GetHistory(ctx context.Context, customerID uuid.UUID, page, limit int) (*HistoryPage, error) {
	page, limit = clampPage(page, limit)

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM points_transactions WHERE customer_id = $1`, customerID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting points transactions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM points_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, transactionColumns)

	rows, err := s.pool.Query(ctx, query, customerID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing points transactions: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{Transactions: txns, Total: total, Page: page, Limit: limit}, nil
}

// GetAllStandings returns one page of the administrative standings listing.
// Search matches the tier name or the customer id text.
func (s *Service) GetAllStandings(ctx context.Context, filter ListFilter) (*StandingsPage, error) {
	page, limit := clampPage(filter.Page, filter.Limit)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(t.name ILIKE $%d OR a.customer_id::text ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM loyalty_accounts a
		JOIN loyalty_tiers t ON a.tier_id = t.id
		%s`, whereClause)

	var total int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting loyalty accounts: %w", err)
	}

	dataQuery := fmt.Sprintf(`
		SELECT a.customer_id, a.current_points, a.total_nights, a.tier_id,
		       a.tier_updated_at, a.points_updated_at, a.created_at, a.updated_at,
		       t.name, t.color
		FROM loyalty_accounts a
		JOIN loyalty_tiers t ON a.tier_id = t.id
		%s
		ORDER BY a.total_nights DESC, a.created_at ASC
		LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)

	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing loyalty accounts: %w", err)
	}
	defer rows.Close()

	var standings []StandingSummary
	for rows.Next() {
		var st StandingSummary
		err := rows.Scan(
			&st.CustomerID, &st.CurrentPoints, &st.TotalNights, &st.TierID,
			&st.TierUpdatedAt, &st.PointsUpdatedAt, &st.CreatedAt, &st.UpdatedAt,
			&st.TierName, &st.TierColor,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning loyalty account row: %w", err)
		}
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loyalty account rows: %w", err)
	}

	if standings == nil {
		standings = []StandingSummary{}
	}

	return &StandingsPage{Standings: standings, Total: total, Page: page, Limit: limit}, nil
}

// GetAdminEntries returns the audit view of the ledger: admin awards, admin
// deductions and stay earnings across all customers, newest first.
func (s *Service) GetAdminEntries(ctx context.Context, page, limit int) (*HistoryPage, error) {
	page, limit = clampPage(page, limit)

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM points_transactions WHERE type = ANY($1)`, adminAuditTypes,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting audit transactions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM points_transactions
		WHERE type = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, transactionColumns)

	rows, err := s.pool.Query(ctx, query, adminAuditTypes, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit transactions: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{Transactions: txns, Total: total, Page: page, Limit: limit}, nil
}

// ListExpirable returns up to limit earned transactions whose points are past
// expiry at the given instant and have no compensating entry yet, oldest
// expiry first.
func (s *Service) ListExpirable(ctx context.Context, now time.Time, limit int) ([]ExpirableTransaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pt.id, pt.customer_id, pt.points, pt.expires_at
		FROM points_transactions pt
		WHERE pt.expires_at IS NOT NULL
		  AND pt.expires_at <= $1
		  AND pt.points > 0
		  AND pt.type IN ('earned_stay', 'earned_bonus')
		  AND NOT EXISTS (
			SELECT 1 FROM points_transactions e
			WHERE e.type = 'expired' AND e.reference_id = pt.id::text
		  )
		ORDER BY pt.expires_at ASC
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing expirable transactions: %w", err)
	}
	defer rows.Close()

	var due []ExpirableTransaction
	for rows.Next() {
		var e ExpirableTransaction
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Points, &e.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scanning expirable row: %w", err)
		}
		due = append(due, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expirable rows: %w", err)
	}

	return due, nil
}

// lockAccount reads the projection row FOR UPDATE, serializing all mutations
// for one customer. With create set, a missing row is first enrolled inside
// the same transaction.
func (s *Service) lockAccount(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, create bool) (*Account, error) {
	if create {
		if _, err := tx.Exec(ctx, insertAccountSQL, customerID); err != nil {
			return nil, fmt.Errorf("enrolling loyalty account: %w", err)
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM loyalty_accounts
		WHERE customer_id = $1
		FOR UPDATE`, accountColumns)

	acct, err := scanAccount(tx.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) && create {
			// The enrollment insert found no active tier to enroll into.
			return nil, tier.ErrNoActiveTiers
		}
		return nil, err
	}
	return acct, nil
}

func (s *Service) getAccount(ctx context.Context, q querier, customerID uuid.UUID) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_accounts WHERE customer_id = $1`, accountColumns)
	return scanAccount(q.QueryRow(ctx, query, customerID))
}

func (s *Service) getTransaction(ctx context.Context, q querier, customerID, id uuid.UUID) (*Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM points_transactions
		WHERE id = $1 AND customer_id = $2`, transactionColumns)

	var t Transaction
	err := q.QueryRow(ctx, query, id, customerID).Scan(
		&t.ID, &t.CustomerID, &t.Points, &t.Nights, &t.Type, &t.Description,
		&t.ReferenceID, &t.AdminActorID, &t.AdminReason, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("querying points transaction: %w", err)
	}
	return &t, nil
}

// activeTiers loads the catalog inside the caller's transaction so the tier
// recompute sees the same snapshot the write will commit against.
func (s *Service) activeTiers(ctx context.Context, q querier) ([]tier.Tier, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, min_nights, benefits, color, points_multiplier,
		       sort_order, is_active, created_at, updated_at
		FROM loyalty_tiers
		WHERE is_active = TRUE
		ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing active tiers: %w", err)
	}
	defer rows.Close()

	var tiers []tier.Tier
	for rows.Next() {
		var t tier.Tier
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

	return tiers, nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.CustomerID, &a.CurrentPoints, &a.TotalNights, &a.TierID,
		&a.TierUpdatedAt, &a.PointsUpdatedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("scanning loyalty account row: %w", err)
	}
	return &a, nil
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var txns []Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(
			&t.ID, &t.CustomerID, &t.Points, &t.Nights, &t.Type, &t.Description,
			&t.ReferenceID, &t.AdminActorID, &t.AdminReason, &t.ExpiresAt, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	if txns == nil {
		txns = []Transaction{}
	}
	return txns, nil
}

func buildStanding(acct *Account, current *tier.Tier, tiers []tier.Tier) *Standing {
	next := tier.Next(tiers, current)
	return &Standing{
		CustomerID:      acct.CustomerID,
		CurrentPoints:   acct.CurrentPoints,
		TotalNights:     acct.TotalNights,
		Tier:            *current,
		NextTier:        next,
		ProgressPercent: tier.Progress(acct.TotalNights, next),
		NightsToNext:    tier.NightsToNext(acct.TotalNights, next),
	}
}

func findTier(tiers []tier.Tier, id uuid.UUID) *tier.Tier {
	for i := range tiers {
		if tiers[i].ID == id {
			return &tiers[i]
		}
	}
	return nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
