package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/api/validation"
	"github.com/thehfhotel/loyalty-backend/internal/rewards"
)

type stayEventRequest struct {
	BookingID   string  `json:"bookingId"`
	CustomerID  string  `json:"customerId"`
	RoomName    string  `json:"roomName"`
	Nights      int     `json:"nights"`
	AmountSpent float64 `json:"amountSpent"`
}

type stayAckResponse struct {
	Status string `json:"status"`
}

// StayHandler receives stay lifecycle events from the booking workflow.
// Loyalty bookkeeping must never fail a stay, so a parseable event is always
// acknowledged with 202; ledger failures are logged by the rewarder and the
// booking flow proceeds regardless.
type StayHandler struct {
	rewarder *rewards.StayRewarder
}

// NewStayHandler creates a new StayHandler.
func NewStayHandler(rewarder *rewards.StayRewarder) *StayHandler {
	return &StayHandler{rewarder: rewarder}
}

// Completed handles POST /api/stays/completed.
func (h *StayHandler) Completed(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.rewarder.StayCompleted)
}

// Cancelled handles POST /api/stays/cancelled.
func (h *StayHandler) Cancelled(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.rewarder.StayCancelled)
}

func (h *StayHandler) handle(w http.ResponseWriter, r *http.Request, apply func(context.Context, rewards.Stay)) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req stayEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateStayEventRequest(validation.StayEventRequest{
		BookingID:   req.BookingID,
		CustomerID:  req.CustomerID,
		RoomName:    req.RoomName,
		Nights:      req.Nights,
		AmountSpent: req.AmountSpent,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	bookingID, _ := uuid.Parse(req.BookingID)   // already validated
	customerID, _ := uuid.Parse(req.CustomerID) // already validated

	apply(r.Context(), rewards.Stay{
		BookingID:   bookingID,
		CustomerID:  customerID,
		RoomName:    req.RoomName,
		Nights:      req.Nights,
		AmountSpent: req.AmountSpent,
	})

	response.Success(w, http.StatusAccepted, stayAckResponse{Status: "accepted"}, requestID)
}
