package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tradebench/backend/internal/auth"
	"github.com/tradebench/backend/internal/models"
)

// Auth verifies the bearer token and stashes the user id in the request
// context under "user_id". Protected handlers read it back with
// r.Context().Value("user_id").(int64).
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Missing authorization token")
				return
			}

			userID, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin gates seeding endpoints behind a shared token. An empty configured
// token disables the endpoints entirely.
func Admin(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" || r.Header.Get("X-Admin-Token") != adminToken {
				unauthorized(w, "Admin access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
