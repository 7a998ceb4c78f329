package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/gotchan/internal/apperr"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    apperr.Code       `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, code apperr.Code, message string) {
	jsonResponse(w, status, errorResponse{Error: message, Code: code})
}

// writeError renders err with the status derived from its code. Errors
// without a code are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Code.Kind() == apperr.KindInternal {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, apperr.CodeInternal, "internal error")
		return
	}
	jsonResponse(w, e.Code.HTTPStatus(), errorResponse{Error: e.Message, Code: e.Code, Details: e.Metadata})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}

// decodeValid decodes the body and checks its validate tags.
func decodeValid(r *http.Request, target any) error {
	if err := decodeJSON(r, target); err != nil {
		return err
	}
	return validateStruct(target)
}

// pathID parses the {id} path segment of item and trade routes.
func pathID(r *http.Request, entity string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("invalid "+entity+" id", nil)
	}
	return id, nil
}
