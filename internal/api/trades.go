package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/access"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/service"
)

// TradesHandler handles trade endpoints.
type TradesHandler struct {
	Service *service.Service
}

type createTradeRequest struct {
	ProposerItemID int64 `json:"proposer_item_id" validate:"required,gt=0"`
	ReceiverItemID int64 `json:"receiver_item_id" validate:"required,gt=0"`
}

type respondTradeRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type trackingRequest struct {
	TrackingCode string `json:"tracking_code" validate:"required,max=50"`
}

// Create handles POST /api/trades.
func (h *TradesHandler) Create(w http.ResponseWriter, r *http.Request) {
	proposer, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createTradeRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	trade, err := h.Service.RequestTrade(r.Context(), service.RequestTradeCommand{
		ProposerID:     proposer,
		ProposerItemID: req.ProposerItemID,
		ReceiverItemID: req.ReceiverItemID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("trade requested", "user", GetClaims(r.Context()).Nickname, "trade", trade.ID)
	jsonResponse(w, http.StatusCreated, trade)
}

// List handles GET /api/trades.
func (h *TradesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trades, err := h.Service.ListTradesByUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, trades)
}

// Get handles GET /api/trades/{id}. Only participants may see a trade.
func (h *TradesHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "trade")
	if err != nil {
		writeError(w, r, err)
		return
	}

	trade, err := h.Service.GetTrade(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := access.CheckTrade(*trade, requester, access.OpView); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, trade)
}

// Respond handles POST /api/trades/{id}/respond.
func (h *TradesHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondTradeRequest
	h.step(w, r, &req, "trade answered", func(id int64, user uuid.UUID) (*model.Trade, error) {
		return h.Service.RespondTrade(r.Context(), service.RespondTradeCommand{
			TradeID:     id,
			ResponderID: user,
			Accept:      *req.Accept,
		})
	})
}

// RegisterTracking handles POST /api/trades/{id}/tracking.
func (h *TradesHandler) RegisterTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	h.step(w, r, &req, "tracking registered", func(id int64, user uuid.UUID) (*model.Trade, error) {
		return h.Service.RegisterTracking(r.Context(), service.RegisterTrackingCommand{
			TradeID:      id,
			UserID:       user,
			TrackingCode: req.TrackingCode,
		})
	})
}

// Confirm handles POST /api/trades/{id}/confirm.
func (h *TradesHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, nil, "receipt confirmed", func(id int64, user uuid.UUID) (*model.Trade, error) {
		return h.Service.ConfirmTrade(r.Context(), id, user)
	})
}

// Cancel handles POST /api/trades/{id}/cancel.
func (h *TradesHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, nil, "trade cancelled", func(id int64, user uuid.UUID) (*model.Trade, error) {
		return h.Service.CancelTrade(r.Context(), id, user)
	})
}

// step runs one trade transition for the caller. A non-nil body is decoded
// and validated first.
func (h *TradesHandler) step(w http.ResponseWriter, r *http.Request, body any, event string, run func(id int64, user uuid.UUID) (*model.Trade, error)) {
	user, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "trade")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if body != nil {
		if err := decodeValid(r, body); err != nil {
			writeError(w, r, err)
			return
		}
	}

	trade, err := run(id, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info(event, "user", GetClaims(r.Context()).Nickname, "trade", trade.ID, "status", trade.Status)
	jsonResponse(w, http.StatusOK, trade)
}
