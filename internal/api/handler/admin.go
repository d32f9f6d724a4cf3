package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/api/validation"
	"github.com/thehfhotel/loyalty-backend/internal/ledger"
)

type adjustmentRequest struct {
	CustomerID  string  `json:"customerId"`
	Points      int     `json:"points"`
	Nights      int     `json:"nights"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description"`
	Reason      *string `json:"reason,omitempty"`
}

type adjustmentResponse struct {
	TransactionID string       `json:"transactionId"`
	Points        int          `json:"points"`
	Nights        int          `json:"nights"`
	NewPoints     int          `json:"newPoints"`
	NewNights     int          `json:"newNights"`
	Tier          tierResponse `json:"tier"`
	TierChanged   bool         `json:"tierChanged"`
}

type standingSummaryResponse struct {
	CustomerID    string `json:"customerId"`
	CurrentPoints int    `json:"currentPoints"`
	TotalNights   int    `json:"totalNights"`
	TierID        string `json:"tierId"`
	TierName      string `json:"tierName"`
	TierColor     string `json:"tierColor"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toAdjustmentResponse(res *ledger.TransactionResult) adjustmentResponse {
	return adjustmentResponse{
		TransactionID: res.TransactionID.String(),
		Points:        res.Points,
		Nights:        res.Nights,
		NewPoints:     res.NewPoints,
		NewNights:     res.NewNights,
		Tier:          toTierResponse(&res.Tier),
		TierChanged:   res.TierChanged,
	}
}

// AdminHandler handles the administrative loyalty endpoints.
type AdminHandler struct {
	engine  ledger.Engine
	sweeper *ledger.Sweeper
}

// NewAdminHandler creates a new AdminHandler. sweeper may be nil when the
// expiry sweeper is disabled.
func NewAdminHandler(engine ledger.Engine, sweeper *ledger.Sweeper) *AdminHandler {
	return &AdminHandler{engine: engine, sweeper: sweeper}
}

// Award handles POST /api/admin/loyalty/award.
func (h *AdminHandler) Award(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAwardRequest(validation.AdjustmentRequest{
		CustomerID:  req.CustomerID,
		Points:      req.Points,
		Nights:      req.Nights,
		Type:        req.Type,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID) // already validated

	typ := ledger.TypeAdminAward
	if req.Type != "" {
		typ = ledger.TransactionType(req.Type)
	}

	var actorID *uuid.UUID
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		actorID = &identity.CredentialID
	}

	result, err := h.engine.Award(r.Context(), ledger.AwardParams{
		CustomerID:   customerID,
		Points:       req.Points,
		Nights:       req.Nights,
		Type:         typ,
		Description:  req.Description,
		AdminActorID: actorID,
		AdminReason:  req.Reason,
	})
	if err != nil {
		writeEngineError(w, err, requestID, "award points")
		return
	}

	response.Success(w, http.StatusOK, toAdjustmentResponse(result), requestID)
}

// Deduct handles POST /api/admin/loyalty/deduct.
func (h *AdminHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateDeductRequest(validation.AdjustmentRequest{
		CustomerID:  req.CustomerID,
		Points:      req.Points,
		Nights:      req.Nights,
		Type:        req.Type,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID) // already validated

	typ := ledger.TypeAdminDeduction
	if req.Type != "" {
		typ = ledger.TransactionType(req.Type)
	}

	var actorID *uuid.UUID
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		actorID = &identity.CredentialID
	}

	result, err := h.engine.Deduct(r.Context(), ledger.DeductParams{
		CustomerID:   customerID,
		Points:       req.Points,
		Nights:       req.Nights,
		Type:         typ,
		Description:  req.Description,
		AdminActorID: actorID,
		AdminReason:  req.Reason,
	})
	if err != nil {
		writeEngineError(w, err, requestID, "deduct points")
		return
	}

	response.Success(w, http.StatusOK, toAdjustmentResponse(result), requestID)
}

// Standings handles GET /api/admin/loyalty.
func (h *AdminHandler) Standings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit, ok := parsePagination(w, r, requestID)
	if !ok {
		return
	}

	filter := ledger.ListFilter{Page: page, Limit: limit}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}

	result, err := h.engine.GetAllStandings(r.Context(), filter)
	if err != nil {
		writeEngineError(w, err, requestID, "list standings")
		return
	}

	items := make([]standingSummaryResponse, 0, len(result.Standings))
	for i := range result.Standings {
		s := &result.Standings[i]
		items = append(items, standingSummaryResponse{
			CustomerID:    s.CustomerID.String(),
			CurrentPoints: s.CurrentPoints,
			TotalNights:   s.TotalNights,
			TierID:        s.TierID.String(),
			TierName:      s.TierName,
			TierColor:     s.TierColor,
			CreatedAt:     s.CreatedAt.UTC().Format(timeFormat),
			UpdatedAt:     s.UpdatedAt.UTC().Format(timeFormat),
		})
	}

	response.SuccessList(w, http.StatusOK, items, result.Total, result.Page, result.Limit, requestID)
}

// Transactions handles GET /api/admin/loyalty/transactions: the audit view
// of admin awards, admin deductions and stay earnings across all customers.
func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit, ok := parsePagination(w, r, requestID)
	if !ok {
		return
	}

	history, err := h.engine.GetAdminEntries(r.Context(), page, limit)
	if err != nil {
		writeEngineError(w, err, requestID, "list audit transactions")
		return
	}

	items := make([]transactionResponse, 0, len(history.Transactions))
	for i := range history.Transactions {
		items = append(items, toTransactionResponse(&history.Transactions[i]))
	}

	response.SuccessList(w, http.StatusOK, items, history.Total, history.Page, history.Limit, requestID)
}

// Recalculate handles POST /api/admin/loyalty/{customerId}/recalculate.
func (h *AdminHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "customerId must be a valid UUID", requestID)
		return
	}

	standing, err := h.engine.Recalculate(r.Context(), customerID)
	if err != nil {
		writeEngineError(w, err, requestID, "recalculate tier")
		return
	}

	response.Success(w, http.StatusOK, toStandingResponse(standing), requestID)
}

// Sweep handles POST /api/admin/loyalty/sweep: a manual, synchronous run of
// the expiry sweep.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if h.sweeper == nil {
		response.Err(w, http.StatusServiceUnavailable, "SWEEPER_DISABLED", "Expiry sweeping is disabled", requestID)
		return
	}

	result, err := h.sweeper.SweepOnce(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrSweepRunning) {
			response.Err(w, http.StatusConflict, "SWEEP_RUNNING", "An expiry sweep is already running", requestID)
			return
		}
		writeEngineError(w, err, requestID, "run expiry sweep")
		return
	}

	response.Success(w, http.StatusOK, result, requestID)
}
