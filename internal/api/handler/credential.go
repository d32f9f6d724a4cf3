package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/api/validation"
	"github.com/thehfhotel/loyalty-backend/internal/auth"
)

type createCredentialRequest struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	CustomerID string `json:"customerId,omitempty"`
}

type credentialResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	CustomerID   *string `json:"customerId,omitempty"`
	ApiKeyPrefix string  `json:"apiKeyPrefix"`
	CreatedAt    string  `json:"createdAt"`
	RevokedAt    *string `json:"revokedAt,omitempty"`
}

type credentialWithKeyResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	CustomerID *string `json:"customerId,omitempty"`
	ApiKey     string  `json:"apiKey"`
	CreatedAt  string  `json:"createdAt"`
}

// CredentialHandler handles credential management endpoints.
type CredentialHandler struct {
	authService *auth.Service
	repo        auth.Repository
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(authService *auth.Service, repo auth.Repository) *CredentialHandler {
	return &CredentialHandler{authService: authService, repo: repo}
}

// Create handles POST /api/admin/credentials. The raw API key appears in
// this response only; the server stores just its hash.
func (h *CredentialHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCredentialRequest(validation.CreateCredentialRequest{
		Name:       req.Name,
		Role:       req.Role,
		CustomerID: req.CustomerID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	req.Name = strings.TrimSpace(req.Name)

	var customerID *uuid.UUID
	if req.Role == auth.RoleCustomer {
		id, _ := uuid.Parse(req.CustomerID) // already validated
		customerID = &id
	}

	rawKey, prefix, hash, err := h.authService.GenerateKey()
	if err != nil {
		slog.Error("failed to generate API key", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create credential", requestID)
		return
	}

	cred := &auth.Credential{
		Name:         req.Name,
		CustomerID:   customerID,
		Role:         req.Role,
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	if err := h.repo.Create(r.Context(), cred); err != nil {
		slog.Error("failed to create credential", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create credential", requestID)
		return
	}

	resp := credentialWithKeyResponse{
		ID:        cred.ID.String(),
		Name:      cred.Name,
		Role:      cred.Role,
		ApiKey:    rawKey,
		CreatedAt: cred.CreatedAt.UTC().Format(timeFormat),
	}
	if customerID != nil {
		cid := customerID.String()
		resp.CustomerID = &cid
	}

	response.Success(w, http.StatusCreated, resp, requestID)
}

// List handles GET /api/admin/credentials.
func (h *CredentialHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	creds, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list credentials", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list credentials", requestID)
		return
	}

	items := make([]credentialResponse, 0, len(creds))
	for i := range creds {
		c := &creds[i]
		resp := credentialResponse{
			ID:           c.ID.String(),
			Name:         c.Name,
			Role:         c.Role,
			ApiKeyPrefix: c.ApiKeyPrefix,
			CreatedAt:    c.CreatedAt.UTC().Format(timeFormat),
		}
		if c.CustomerID != nil {
			cid := c.CustomerID.String()
			resp.CustomerID = &cid
		}
		if c.RevokedAt != nil {
			revoked := c.RevokedAt.UTC().Format(timeFormat)
			resp.RevokedAt = &revoked
		}
		items = append(items, resp)
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// Delete handles DELETE /api/admin/credentials/{id} (soft-revoke).
func (h *CredentialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	// Revoking the credential authorizing this request would lock the
	// caller out mid-session.
	if identity := middleware.GetIdentity(r.Context()); identity != nil && identity.CredentialID == id {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Cannot revoke the credential used for this request", requestID)
		return
	}

	if err := h.repo.Revoke(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrCredentialNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Credential not found", requestID)
			return
		}
		if errors.Is(err, auth.ErrCredentialRevoked) {
			// Already revoked, treat as success (idempotent)
			response.NoContent(w)
			return
		}
		slog.Error("failed to revoke credential", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke credential", requestID)
		return
	}

	response.NoContent(w)
}
