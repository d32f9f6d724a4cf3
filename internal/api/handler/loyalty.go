package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/ledger"
	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

const timeFormat = "2006-01-02T15:04:05Z"

type tierResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	MinNights        int      `json:"minNights"`
	Benefits         []string `json:"benefits"`
	Color            string   `json:"color"`
	PointsMultiplier float64  `json:"pointsMultiplier"`
	SortOrder        int      `json:"sortOrder"`
}

type standingResponse struct {
	CustomerID      string        `json:"customerId"`
	CurrentPoints   int           `json:"currentPoints"`
	TotalNights     int           `json:"totalNights"`
	Tier            tierResponse  `json:"tier"`
	NextTier        *tierResponse `json:"nextTier,omitempty"`
	ProgressPercent int           `json:"progressPercent"`
	NightsToNext    *int          `json:"nightsToNext,omitempty"`
}

type transactionResponse struct {
	ID           string  `json:"id"`
	CustomerID   string  `json:"customerId"`
	Points       int     `json:"points"`
	Nights       int     `json:"nights"`
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	ReferenceID  *string `json:"referenceId,omitempty"`
	AdminActorID *string `json:"adminActorId,omitempty"`
	AdminReason  *string `json:"adminReason,omitempty"`
	ExpiresAt    *string `json:"expiresAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func toTierResponse(t *tier.Tier) tierResponse {
	benefits := t.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	return tierResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		MinNights:        t.MinNights,
		Benefits:         benefits,
		Color:            t.Color,
		PointsMultiplier: t.PointsMultiplier,
		SortOrder:        t.SortOrder,
	}
}

func toStandingResponse(s *ledger.Standing) standingResponse {
	resp := standingResponse{
		CustomerID:      s.CustomerID.String(),
		CurrentPoints:   s.CurrentPoints,
		TotalNights:     s.TotalNights,
		Tier:            toTierResponse(&s.Tier),
		ProgressPercent: s.ProgressPercent,
		NightsToNext:    s.NightsToNext,
	}
	if s.NextTier != nil {
		next := toTierResponse(s.NextTier)
		resp.NextTier = &next
	}
	return resp
}

func toTransactionResponse(t *ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          t.ID.String(),
		CustomerID:  t.CustomerID.String(),
		Points:      t.Points,
		Nights:      t.Nights,
		Type:        string(t.Type),
		Description: t.Description,
		ReferenceID: t.ReferenceID,
		AdminReason: t.AdminReason,
		CreatedAt:   t.CreatedAt.UTC().Format(timeFormat),
	}
	if t.AdminActorID != nil {
		actor := t.AdminActorID.String()
		resp.AdminActorID = &actor
	}
	if t.ExpiresAt != nil {
		expires := t.ExpiresAt.UTC().Format(timeFormat)
		resp.ExpiresAt = &expires
	}
	return resp
}

// writeEngineError maps ledger errors onto HTTP statuses. what names the
// failed action for logs and the fallback client message, e.g. "fetch
// loyalty status".
func writeEngineError(w http.ResponseWriter, err error, requestID, what string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		response.Err(w, http.StatusBadRequest, "INVALID_AMOUNT", "Points and nights must be non-negative and not both zero", requestID)
	case errors.Is(err, ledger.ErrInvalidType):
		response.Err(w, http.StatusBadRequest, "INVALID_TYPE", "Transaction type is not allowed for this operation", requestID)
	case errors.Is(err, ledger.ErrInsufficientBalance):
		response.Err(w, http.StatusConflict, "INSUFFICIENT_BALANCE", "Balance is too low for this deduction", requestID)
	case errors.Is(err, ledger.ErrAccountNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Loyalty account not found", requestID)
	case errors.Is(err, ledger.ErrTransactionNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Transaction not found", requestID)
	case errors.Is(err, ledger.ErrNotExpirable):
		response.Err(w, http.StatusConflict, "NOT_EXPIRABLE", "Transaction cannot be expired", requestID)
	case errors.Is(err, tier.ErrNoActiveTiers):
		slog.Error("failed to "+what, "error", err)
		response.Err(w, http.StatusInternalServerError, "TIER_CONFIG_MISSING", "No active loyalty tiers are configured", requestID)
	default:
		slog.Error("failed to "+what, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+what, requestID)
	}
}

// parsePagination reads page and limit query parameters with the defaults
// used across every list endpoint. Returns ok=false after writing a 400.
func parsePagination(w http.ResponseWriter, r *http.Request, requestID string) (page, limit int, ok bool) {
	page, limit = 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			response.Err(w, http.StatusBadRequest, "INVALID_PARAM", "page must be a positive integer", requestID)
			return 0, 0, false
		}
		page = p
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			response.Err(w, http.StatusBadRequest, "INVALID_PARAM", "limit must be a positive integer", requestID)
			return 0, 0, false
		}
		limit = l
	}

	return page, limit, true
}

// LoyaltyHandler handles the customer-facing loyalty endpoints.
type LoyaltyHandler struct {
	engine ledger.Engine
	tiers  tier.Repository
}

// NewLoyaltyHandler creates a new LoyaltyHandler.
func NewLoyaltyHandler(engine ledger.Engine, tiers tier.Repository) *LoyaltyHandler {
	return &LoyaltyHandler{engine: engine, tiers: tiers}
}

// Status handles GET /api/loyalty/status. The acting customer comes from the
// credential; customers cannot read each other's standing.
func (h *LoyaltyHandler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.CustomerID == nil {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Credential is not bound to a customer", requestID)
		return
	}

	standing, err := h.engine.GetStanding(r.Context(), *identity.CustomerID)
	if err != nil {
		writeEngineError(w, err, requestID, "fetch loyalty status")
		return
	}

	response.Success(w, http.StatusOK, toStandingResponse(standing), requestID)
}

// Transactions handles GET /api/loyalty/transactions.
func (h *LoyaltyHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.CustomerID == nil {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Credential is not bound to a customer", requestID)
		return
	}

	page, limit, ok := parsePagination(w, r, requestID)
	if !ok {
		return
	}

	history, err := h.engine.GetHistory(r.Context(), *identity.CustomerID, page, limit)
	if err != nil {
		writeEngineError(w, err, requestID, "list transactions")
		return
	}

	items := make([]transactionResponse, 0, len(history.Transactions))
	for i := range history.Transactions {
		items = append(items, toTransactionResponse(&history.Transactions[i]))
	}

	response.SuccessList(w, http.StatusOK, items, history.Total, history.Page, history.Limit, requestID)
}

// Tiers handles GET /api/loyalty/tiers. Public: the tier catalog is shown on
// the marketing site without authentication.
func (h *LoyaltyHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	tiers, err := h.tiers.ListActive(r.Context())
	if err != nil {
		slog.Error("failed to list tiers", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tiers", requestID)
		return
	}

	items := make([]tierResponse, 0, len(tiers))
	for i := range tiers {
		items = append(items, toTierResponse(&tiers[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}
