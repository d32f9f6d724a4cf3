package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validRoles = map[string]bool{"admin": true, "service": true, "customer": true}

// CreateCredentialRequest mirrors the fields needed for create credential
// validation.
type CreateCredentialRequest struct {
	Name       string
	Role       string
	CustomerID string
}

// ValidateCreateCredentialRequest validates the fields of a create credential
// request. Customer credentials must name the customer they act for; other
// roles must not.
func ValidateCreateCredentialRequest(req CreateCredentialRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	switch {
	case req.Role == "":
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	case !validRoles[req.Role]:
		errs = append(errs, FieldError{Field: "role", Message: fmt.Sprintf("role must be one of: %s", joinKeys(validRoles))})
	}

	if req.Role == "customer" {
		if req.CustomerID == "" {
			errs = append(errs, FieldError{Field: "customerId", Message: "customerId is required for customer credentials"})
		} else if _, err := uuid.Parse(req.CustomerID); err != nil {
			errs = append(errs, FieldError{Field: "customerId", Message: "customerId must be a valid UUID"})
		}
	} else if req.CustomerID != "" {
		errs = append(errs, FieldError{Field: "customerId", Message: "customerId is only allowed for customer credentials"})
	}

	return errs
}
