package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const refreshCookieName = "refresh_token"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	if service == nil {
		panic("auth service must not be nil")
	}
	return &Handler{service: service}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type userResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrEmailTaken):
			writeJSONError(w, http.StatusConflict, err.Error())
		default:
			log.Errorf("registration failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": userResponse{ID: user.ID, Email: user.Email},
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTwoFactorRequired), errors.Is(err, ErrInvalidTwoFactorCode):
			writeJSONError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Errorf("login failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	h.setRefreshCookie(w, tokens)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"accessToken": tokens.AccessToken},
	})
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSessionToken), errors.Is(err, ErrExpiredSessionToken):
			writeJSONError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Errorf("token refresh failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	h.setRefreshCookie(w, tokens)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"accessToken": tokens.AccessToken},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Errorf("logout failed: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Errorf("could not load user profile: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": userResponse{ID: user.ID, Email: user.Email, TwoFactorEnabled: user.TwoFactorEnabled},
	})
}

func (h *Handler) HandleSetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otpauthURL, secret, err := h.service.SetupTwoFactor(r.Context(), userID)
	if err != nil {
		log.Errorf("two-factor setup failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to set up two-factor authentication")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"otpauthUrl": otpauthURL, "secret": secret},
	})
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.VerifyTwoFactor(r.Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrTwoFactorNotConfigured):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidTwoFactorCode):
			writeJSONError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Errorf("two-factor verification failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to verify two-factor code")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]bool{"enabled": true},
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DisableTwoFactor(r.Context(), userID); err != nil {
		log.Errorf("could not disable two-factor authentication: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to disable two-factor authentication")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, tokens *Tokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    tokens.RefreshToken,
		Path:     "/api/auth",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
