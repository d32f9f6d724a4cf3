package validation_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/thehfhotel/loyalty-backend/internal/api/validation"
)

func hasFieldError(errs []validation.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func validAdjustment() validation.AdjustmentRequest {
	return validation.AdjustmentRequest{
		CustomerID:  uuid.NewString(),
		Points:      100,
		Nights:      1,
		Description: "Service recovery",
	}
}

func TestValidateAwardRequest_Valid(t *testing.T) {
	errs := validation.ValidateAwardRequest(validAdjustment())

	assert.Empty(t, errs)
}

func TestValidateAwardRequest_CustomerID(t *testing.T) {
	req := validAdjustment()
	req.CustomerID = ""
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "customerId"),
		"expected customerId error when missing")

	req.CustomerID = "not-a-uuid"
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "customerId"),
		"expected customerId error for %q", req.CustomerID)
}

func TestValidateAwardRequest_Amounts(t *testing.T) {
	req := validAdjustment()
	req.Points = -1
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "points"))

	req = validAdjustment()
	req.Nights = -1
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "nights"))

	req = validAdjustment()
	req.Points = 0
	req.Nights = 0
	errs := validation.ValidateAwardRequest(req)
	assert.True(t, hasFieldError(errs, "points"), "expected error when both deltas are zero")
}

func TestValidateAwardRequest_NightsOnlyIsValid(t *testing.T) {
	req := validAdjustment()
	req.Points = 0
	req.Nights = 3

	errs := validation.ValidateAwardRequest(req)

	assert.Empty(t, errs)
}

func TestValidateAwardRequest_Description(t *testing.T) {
	req := validAdjustment()
	req.Description = ""
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "description"))

	req.Description = "   "
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "description"),
		"expected whitespace-only description to be rejected")

	req.Description = strings.Repeat("x", 501)
	assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "description"))

	req.Description = strings.Repeat("x", 500)
	assert.False(t, hasFieldError(validation.ValidateAwardRequest(req), "description"))
}

func TestValidateAwardRequest_Types(t *testing.T) {
	for _, typ := range []string{"", "earned_bonus", "admin_award", "admin_adjustment"} {
		req := validAdjustment()
		req.Type = typ
		assert.False(t, hasFieldError(validation.ValidateAwardRequest(req), "type"),
			"expected type %q to be accepted", typ)
	}

	for _, typ := range []string{"earned_stay", "redeemed", "expired", "admin_deduction", "bogus"} {
		req := validAdjustment()
		req.Type = typ
		assert.True(t, hasFieldError(validation.ValidateAwardRequest(req), "type"),
			"expected type %q to be rejected", typ)
	}
}

func TestValidateDeductRequest_Types(t *testing.T) {
	for _, typ := range []string{"", "redeemed", "admin_deduction", "admin_adjustment"} {
		req := validAdjustment()
		req.Type = typ
		assert.False(t, hasFieldError(validation.ValidateDeductRequest(req), "type"),
			"expected type %q to be accepted", typ)
	}

	for _, typ := range []string{"earned_stay", "earned_bonus", "expired", "admin_award"} {
		req := validAdjustment()
		req.Type = typ
		assert.True(t, hasFieldError(validation.ValidateDeductRequest(req), "type"),
			"expected type %q to be rejected", typ)
	}
}

func TestValidateDeductRequest_CollectsAllErrors(t *testing.T) {
	errs := validation.ValidateDeductRequest(validation.AdjustmentRequest{
		CustomerID:  "nope",
		Points:      -5,
		Nights:      0,
		Type:        "expired",
		Description: "",
	})

	assert.True(t, hasFieldError(errs, "customerId"))
	assert.True(t, hasFieldError(errs, "points"))
	assert.True(t, hasFieldError(errs, "description"))
	assert.True(t, hasFieldError(errs, "type"))
	assert.Len(t, errs, 4)
}
