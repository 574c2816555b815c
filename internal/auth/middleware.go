package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// RequireUser is the identity gate: it resolves the caller from the Bearer
// token and stores the user id in the request context, or rejects the request
// with 401 before any handler runs.
func (s *service) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		userID, err := s.jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if _, err := s.users.FindByID(r.Context(), userID); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
