package auth

import (
	"encoding/json"
	"net/http"

	"github.com/tradebench/backend/internal/models"
)

type Handler struct {
	adapter Authenticator
}

func NewHandler(adapter Authenticator) *Handler {
	return &Handler{adapter: adapter}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res := h.adapter.SignUp(r.Context(), req)
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: res.Token, User: *res.User})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res := h.adapter.SignIn(r.Context(), req.Email, req.Password)
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: res.Token, User: *res.User})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.adapter.SignOut()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Missing authorization token"})
		return
	}

	res := h.adapter.RefreshToken(r.Context(), token)
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: res.Token, User: *res.User})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	res := h.adapter.GetCurrentUser(r.Context(), bearerToken(r))
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, res.User)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res := h.adapter.UpdateProfile(r.Context(), userID, req)
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, res.User)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res := h.adapter.ResetPassword(r.Context(), req)
	if !res.Success {
		writeJSON(w, statusForCode(res.Code), models.ErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
