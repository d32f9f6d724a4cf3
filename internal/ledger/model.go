package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeEarnedStay      TransactionType = "earned_stay"
	TypeEarnedBonus     TransactionType = "earned_bonus"
	TypeRedeemed        TransactionType = "redeemed"
	TypeExpired         TransactionType = "expired"
	TypeAdminAdjustment TransactionType = "admin_adjustment"
	TypeAdminAward      TransactionType = "admin_award"
	TypeAdminDeduction  TransactionType = "admin_deduction"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeEarnedStay, TypeEarnedBonus, TypeRedeemed, TypeExpired,
		TypeAdminAdjustment, TypeAdminAward, TypeAdminDeduction:
		return true
	}
	return false
}

// IsCredit reports whether t may add points or nights to an account.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TypeEarnedStay, TypeEarnedBonus, TypeAdminAward, TypeAdminAdjustment:
		return true
	}
	return false
}

// IsDebit reports whether t may remove points or nights from an account.
func (t TransactionType) IsDebit() bool {
	switch t {
	case TypeRedeemed, TypeExpired, TypeAdminDeduction, TypeAdminAdjustment:
		return true
	}
	return false
}

// IsAdminAction reports whether t is recorded on behalf of an administrator.
func (t TransactionType) IsAdminAction() bool {
	switch t {
	case TypeAdminAdjustment, TypeAdminAward, TypeAdminDeduction:
		return true
	}
	return false
}

// adminAuditTypes is the subset of types shown in the admin audit view.
var adminAuditTypes = []string{
	string(TypeAdminAward),
	string(TypeAdminDeduction),
	string(TypeEarnedStay),
}

// Transaction is one immutable row of the points ledger. Corrections are made
// by appending an offsetting entry, never by editing or deleting history.
type Transaction struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	Points       int // signed delta applied to the account's current points
	Nights       int // signed delta applied to the account's total nights
	Type         TransactionType
	Description  string
	ReferenceID  *string
	AdminActorID *uuid.UUID
	AdminReason  *string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// Account is the denormalized per-customer projection maintained from ledger
// writes. TierID is derived from TotalNights; callers never set it directly.
type Account struct {
	CustomerID      uuid.UUID
	CurrentPoints   int
	TotalNights     int
	TierID          uuid.UUID
	TierUpdatedAt   time.Time
	PointsUpdatedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Standing is a customer's current position in the program.
type Standing struct {
	CustomerID      uuid.UUID
	CurrentPoints   int
	TotalNights     int
	Tier            tier.Tier
	NextTier        *tier.Tier
	ProgressPercent int
	NightsToNext    *int // nil at the top tier
}

// AwardParams describes a credit to apply to an account. Points and Nights
// must be non-negative and at least one of them positive.
type AwardParams struct {
	CustomerID   uuid.UUID
	Points       int
	Nights       int
	Type         TransactionType
	Description  string
	ReferenceID  *string
	ExpiresAt    *time.Time
	AdminActorID *uuid.UUID
	AdminReason  *string
}

// DeductParams describes a debit. Points and Nights must be non-negative and
// at least one of them positive; both are checked against the current balance.
type DeductParams struct {
	CustomerID   uuid.UUID
	Points       int
	Nights       int
	Type         TransactionType
	Description  string
	ReferenceID  *string
	AdminActorID *uuid.UUID
	AdminReason  *string
}

// TransactionResult reports the outcome of an Award or Deduct.
type TransactionResult struct {
	TransactionID uuid.UUID
	Points        int // signed delta that was applied
	Nights        int
	NewPoints     int
	NewNights     int
	Tier          tier.Tier
	TierChanged   bool
}

// ExpireResult reports the outcome of expiring one earned transaction.
type ExpireResult struct {
	AlreadyExpired bool
	PointsExpired  int
	NewPoints      int
}

// ExpirableTransaction is a sweep candidate: an earned entry whose points are
// past their expiry and not yet compensated.
type ExpirableTransaction struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Points     int
	ExpiresAt  time.Time
}

// HistoryPage is one page of a customer's ledger, newest first.
type HistoryPage struct {
	Transactions []Transaction
	Total        int
	Page         int
	Limit        int
}

// StandingSummary is one row of the administrative standings listing.
type StandingSummary struct {
	Account
	TierName  string
	TierColor string
}

// StandingsPage is one page of the administrative standings listing.
type StandingsPage struct {
	Standings []StandingSummary
	Total     int
	Page      int
	Limit     int
}

// ListFilter narrows and pages the administrative standings listing.
// Search matches the tier name or the customer id text.
type ListFilter struct {
	Search *string
	Page   int
	Limit  int
}
