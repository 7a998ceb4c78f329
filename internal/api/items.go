package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/imaging"
	"github.com/erazemk/gotchan/internal/service"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Service *service.Service
}

type createItemRequest struct {
	SeriesName string `json:"series_name" validate:"required,max=100"`
	ItemName   string `json:"item_name" validate:"required,max=100"`
	ImageURL   string `json:"image_url" validate:"omitempty,max=500"`
	Type       string `json:"type" validate:"required,oneof=HAVE WISH"`
}

type updateItemRequest struct {
	SeriesName *string `json:"series_name" validate:"omitempty,max=100"`
	ItemName   *string `json:"item_name" validate:"omitempty,max=100"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=500"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createItemRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Service.CreateItem(r.Context(), service.CreateItemCommand{
		OwnerID:    owner,
		SeriesName: req.SeriesName,
		ItemName:   req.ItemName,
		ImageURL:   req.ImageURL,
		Type:       req.Type,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item created", "user", GetClaims(r.Context()).Nickname, "item", item.ID, "type", item.Type)
	jsonResponse(w, http.StatusCreated, item)
}

// Search handles GET /api/items?series=.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	series := strings.TrimSpace(r.URL.Query().Get("series"))
	if series == "" {
		writeError(w, r, apperr.InvalidInput("series required", map[string]string{"series": "is required"}))
		return
	}

	items, err := h.Service.SearchBySeries(r.Context(), series)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Service.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PATCH /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), service.UpdateItemCommand{
		ItemID:      id,
		RequesterID: requester,
		SeriesName:  req.SeriesName,
		ItemName:    req.ItemName,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item updated", "user", GetClaims(r.Context()).Nickname, "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), id, requester); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item deleted", "user", GetClaims(r.Context()).Nickname, "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image. The photo is sent as the
// "image" field of a multipart form.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	requester, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Leave room for the multipart framing around the photo.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		writeError(w, r, apperr.Wrap(apperr.CodeInvalidInput, "file too large or invalid multipart form", err))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, apperr.InvalidInput("image file required", map[string]string{"image": "is required"}))
		return
	}
	defer file.Close()

	item, err := h.Service.SetItemImage(r.Context(), id, requester, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item image uploaded", "user", GetClaims(r.Context()).Nickname, "item", id)
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "item")
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, mime, err := h.Service.GetItemImage(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
