package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/service"
)

// UsersHandler handles profile endpoints.
type UsersHandler struct {
	Service *service.Service
}

type updateProfileRequest struct {
	Nickname *string `json:"nickname" validate:"omitempty,min=2,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=200"`
}

// publicProfile is what other users see. Email and address stay private.
type publicProfile struct {
	ID         uuid.UUID       `json:"id"`
	Nickname   string          `json:"nickname"`
	TrustScore decimal.Decimal `json:"trust_score"`
	HasAddress bool            `json:"has_address"`
}

func newPublicProfile(u *model.User) publicProfile {
	return publicProfile{
		ID:         u.ID,
		Nickname:   u.Nickname,
		TrustScore: u.TrustScore,
		HasAddress: u.HasAddress(),
	}
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/users/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateProfileRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), service.UpdateUserCommand{
		UserID:   id,
		Nickname: req.Nickname,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("profile updated", "user", user.Nickname)
	jsonResponse(w, http.StatusOK, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userPathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newPublicProfile(user))
}

// Items handles GET /api/users/{id}/items.
func (h *UsersHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, err := userPathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.Service.ListItemsByOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

func userPathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperr.InvalidInput("invalid user id", nil)
	}
	return id, nil
}
