package validation_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/thehfhotel/loyalty-backend/internal/api/validation"
)

func validStayEvent() validation.StayEventRequest {
	return validation.StayEventRequest{
		BookingID:   uuid.NewString(),
		CustomerID:  uuid.NewString(),
		RoomName:    "Deluxe Suite",
		Nights:      2,
		AmountSpent: 249.50,
	}
}

func TestValidateStayEventRequest_Valid(t *testing.T) {
	errs := validation.ValidateStayEventRequest(validStayEvent())

	assert.Empty(t, errs)
}

func TestValidateStayEventRequest_ZeroChargeStayIsValid(t *testing.T) {
	req := validStayEvent()
	req.Nights = 0
	req.AmountSpent = 0

	errs := validation.ValidateStayEventRequest(req)

	assert.Empty(t, errs)
}

func TestValidateStayEventRequest_IDs(t *testing.T) {
	req := validStayEvent()
	req.BookingID = ""
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "bookingId"))

	req = validStayEvent()
	req.BookingID = "booking-123"
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "bookingId"))

	req = validStayEvent()
	req.CustomerID = ""
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "customerId"))

	req = validStayEvent()
	req.CustomerID = "guest-42"
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "customerId"))
}

func TestValidateStayEventRequest_RoomName(t *testing.T) {
	req := validStayEvent()
	req.RoomName = ""
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "roomName"))

	req.RoomName = "  "
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "roomName"))

	req.RoomName = strings.Repeat("r", 256)
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "roomName"))

	req.RoomName = strings.Repeat("r", 255)
	assert.False(t, hasFieldError(validation.ValidateStayEventRequest(req), "roomName"))
}

func TestValidateStayEventRequest_NegativeAmounts(t *testing.T) {
	req := validStayEvent()
	req.Nights = -1
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "nights"))

	req = validStayEvent()
	req.AmountSpent = -0.01
	assert.True(t, hasFieldError(validation.ValidateStayEventRequest(req), "amountSpent"))
}
