package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go-notes-api/internal/middleware"
	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
	"go-notes-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Email, payload.Fullname, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, "user registered")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setAuthCookies(w, model.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
	writeSuccess(w, http.StatusOK, result, "user logged-in")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Logout(r.Context(), identity.ID); err != nil {
		writeError(w, err)
		return
	}

	clearAuthCookies(w)
	writeSuccess(w, http.StatusOK, map[string]any{}, "user logged-out")
}

// Refresh accepts the refresh token from the cookie first, the JSON body
// second. Rotation happens in the service; the rotated pair replaces both
// cookies.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = strings.TrimSpace(cookie.Value)
	}
	if token == "" {
		var payload model.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			token = strings.TrimSpace(payload.RefreshToken)
		}
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	setAuthCookies(w, pair)
	writeSuccess(w, http.StatusOK, pair, "access token refreshed")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	err := h.service.ChangePassword(r.Context(), identity.ID, payload.OldPassword, payload.NewPassword, payload.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "password changed")
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	writeSuccess(w, http.StatusOK, identity, "current user fetched")
}

func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	user, err := h.service.UpdateAccount(r.Context(), identity.ID, payload.Email, payload.Fullname)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, "account details updated")
}
