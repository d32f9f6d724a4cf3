// Package rewards bridges the booking workflow to the loyalty ledger. Its
// operations are best-effort: loyalty bookkeeping must never fail a stay, so
// every error is logged and swallowed.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/ledger"
)

// Ledger is the slice of the engine the bridge writes through.
type Ledger interface {
	EnsureEnrolled(ctx context.Context, customerID uuid.UUID) error
	Award(ctx context.Context, p ledger.AwardParams) (*ledger.TransactionResult, error)
	Deduct(ctx context.Context, p ledger.DeductParams) (*ledger.TransactionResult, error)
}

// Stay is the booking-workflow view of a completed or cancelled stay.
type Stay struct {
	BookingID   uuid.UUID
	CustomerID  uuid.UUID
	RoomName    string
	Nights      int
	AmountSpent float64
}

// StayRewarder converts stays into ledger entries.
type StayRewarder struct {
	ledger      Ledger
	pointRate   float64
	expireAfter time.Duration
}

// NewStayRewarder creates a bridge earning pointRate points per currency unit
// spent. Awards carry an expiry stamp of expireAfter from now; zero disables
// expiry.
func NewStayRewarder(l Ledger, pointRate float64, expireAfter time.Duration) *StayRewarder {
	return &StayRewarder{ledger: l, pointRate: pointRate, expireAfter: expireAfter}
}

// Points returns the points earned for an amount spent.
func (r *StayRewarder) Points(amountSpent float64) int {
	points := int(math.Floor(amountSpent * r.pointRate))
	if points < 0 {
		return 0
	}
	return points
}

// StayCompleted awards points and nights for a finished stay. The award is
// idempotent only as far as the booking workflow delivers each completion
// once; the ledger records the booking id for reconciliation.
func (r *StayRewarder) StayCompleted(ctx context.Context, stay Stay) {
	points := r.Points(stay.AmountSpent)
	nights := stay.Nights
	if nights < 0 {
		nights = 0
	}
	if points == 0 && nights == 0 {
		slog.Info("stay earned nothing, skipping award",
			"bookingId", stay.BookingID,
			"customerId", stay.CustomerID,
		)
		return
	}

	ref := bookingReference(stay.BookingID)
	var expiresAt *time.Time
	if r.expireAfter > 0 {
		t := time.Now().Add(r.expireAfter)
		expiresAt = &t
	}

	result, err := r.ledger.Award(ctx, ledger.AwardParams{
		CustomerID:  stay.CustomerID,
		Points:      points,
		Nights:      nights,
		Type:        ledger.TypeEarnedStay,
		Description: fmt.Sprintf("Completed booking: %s (%d nights)", stay.RoomName, stay.Nights),
		ReferenceID: &ref,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		slog.Error("awarding stay points failed",
			"bookingId", stay.BookingID,
			"customerId", stay.CustomerID,
			"error", err,
		)
		return
	}

	slog.Info("stay rewarded",
		"bookingId", stay.BookingID,
		"customerId", stay.CustomerID,
		"points", points,
		"nights", nights,
		"tier", result.Tier.Name,
		"tierChanged", result.TierChanged,
	)
}

// StayCancelled claws back what the stay originally earned. A balance already
// spent below the clawback is left alone rather than driven negative.
func (r *StayRewarder) StayCancelled(ctx context.Context, stay Stay) {
	points := r.Points(stay.AmountSpent)
	nights := stay.Nights
	if nights < 0 {
		nights = 0
	}
	if points == 0 && nights == 0 {
		return
	}

	ref := bookingReference(stay.BookingID)
	reason := "Booking cancelled"

	_, err := r.ledger.Deduct(ctx, ledger.DeductParams{
		CustomerID:  stay.CustomerID,
		Points:      points,
		Nights:      nights,
		Type:        ledger.TypeAdminAdjustment,
		Description: fmt.Sprintf("Cancelled booking: %s (%d nights)", stay.RoomName, stay.Nights),
		ReferenceID: &ref,
		AdminReason: &reason,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			slog.Warn("cancellation clawback exceeds balance, skipping",
				"bookingId", stay.BookingID,
				"customerId", stay.CustomerID,
				"points", points,
				"nights", nights,
			)
			return
		}
		slog.Error("deducting cancelled stay failed",
			"bookingId", stay.BookingID,
			"customerId", stay.CustomerID,
			"error", err,
		)
		return
	}

	slog.Info("cancelled stay clawed back",
		"bookingId", stay.BookingID,
		"customerId", stay.CustomerID,
		"points", points,
		"nights", nights,
	)
}

// EnrollOnSignIn makes sure a signing-in customer has a loyalty account.
// Advisory: failures are logged, never surfaced to the sign-in flow.
func (r *StayRewarder) EnrollOnSignIn(ctx context.Context, customerID uuid.UUID) {
	if err := r.ledger.EnsureEnrolled(ctx, customerID); err != nil {
		slog.Error("enrollment on sign-in failed",
			"customerId", customerID,
			"error", err,
		)
	}
}

func bookingReference(bookingID uuid.UUID) string {
	return "BOOKING-" + bookingID.String()
}
