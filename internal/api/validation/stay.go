package validation

import (
	"strings"

	"github.com/google/uuid"
)

// StayEventRequest mirrors the fields needed for stay event validation.
type StayEventRequest struct {
	BookingID   string
	CustomerID  string
	RoomName    string
	Nights      int
	AmountSpent float64
}

// ValidateStayEventRequest validates a completed or cancelled stay event.
func ValidateStayEventRequest(req StayEventRequest) []FieldError {
	var errs []FieldError

	if req.BookingID == "" {
		errs = append(errs, FieldError{Field: "bookingId", Message: "bookingId is required"})
	} else if _, err := uuid.Parse(req.BookingID); err != nil {
		errs = append(errs, FieldError{Field: "bookingId", Message: "bookingId must be a valid UUID"})
	}

	if req.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customerId", Message: "customerId is required"})
	} else if _, err := uuid.Parse(req.CustomerID); err != nil {
		errs = append(errs, FieldError{Field: "customerId", Message: "customerId must be a valid UUID"})
	}

	roomName := strings.TrimSpace(req.RoomName)
	if roomName == "" {
		errs = append(errs, FieldError{Field: "roomName", Message: "roomName is required"})
	} else if len(roomName) > 255 {
		errs = append(errs, FieldError{Field: "roomName", Message: "roomName must be at most 255 characters"})
	}

	if req.Nights < 0 {
		errs = append(errs, FieldError{Field: "nights", Message: "nights must not be negative"})
	}
	if req.AmountSpent < 0 {
		errs = append(errs, FieldError{Field: "amountSpent", Message: "amountSpent must not be negative"})
	}

	return errs
}
