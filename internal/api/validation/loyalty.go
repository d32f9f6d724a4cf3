package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Transaction types an administrator may mint directly. Stay earnings come
// from the booking workflow and expiries from the sweeper, so neither is
// accepted here.
var (
	awardTypes  = map[string]bool{"earned_bonus": true, "admin_award": true, "admin_adjustment": true}
	deductTypes = map[string]bool{"redeemed": true, "admin_deduction": true, "admin_adjustment": true}
)

// AdjustmentRequest mirrors the fields shared by award and deduct validation.
type AdjustmentRequest struct {
	CustomerID  string
	Points      int
	Nights      int
	Type        string // empty selects the endpoint default
	Description string
}

// ValidateAwardRequest validates the fields of an admin award request.
func ValidateAwardRequest(req AdjustmentRequest) []FieldError {
	return validateAdjustment(req, awardTypes)
}

// ValidateDeductRequest validates the fields of an admin deduct request.
func ValidateDeductRequest(req AdjustmentRequest) []FieldError {
	return validateAdjustment(req, deductTypes)
}

func validateAdjustment(req AdjustmentRequest, types map[string]bool) []FieldError {
	var errs []FieldError

	if req.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customerId", Message: "customerId is required"})
	} else if _, err := uuid.Parse(req.CustomerID); err != nil {
		errs = append(errs, FieldError{Field: "customerId", Message: "customerId must be a valid UUID"})
	}

	if req.Points < 0 {
		errs = append(errs, FieldError{Field: "points", Message: "points must not be negative"})
	}
	if req.Nights < 0 {
		errs = append(errs, FieldError{Field: "nights", Message: "nights must not be negative"})
	}
	if req.Points == 0 && req.Nights == 0 {
		errs = append(errs, FieldError{Field: "points", Message: "at least one of points and nights must be positive"})
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	} else if len(description) > 500 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 500 characters"})
	}

	if req.Type != "" && !types[req.Type] {
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("type must be one of: %s", joinKeys(types))})
	}

	return errs
}

// joinKeys returns a sorted, comma-separated string of map keys.
func joinKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, fmt.Sprintf("%q", k))
	}
	// Sort for deterministic output
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[i] > keys[j] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return strings.Join(keys, ", ")
}
