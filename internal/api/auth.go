package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/auth"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/service"
	"github.com/erazemk/gotchan/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Service   *service.Service
	JWTSecret string
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=50"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.SignUp(r.Context(), service.SignUpCommand{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user signed up", "user", user.Nickname)
	jsonResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindUnauthorized) {
			slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		}
		writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user", user.Nickname)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil || claims.ExpiresAt == nil {
		jsonError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.Service.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged out", "user", claims.Nickname)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req changePasswordRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user changed own password", "user", GetClaims(r.Context()).Nickname)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
