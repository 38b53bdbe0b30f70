package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) int64 {
	return r.Context().Value("user_id").(int64)
}

func yearVar(r *http.Request) (int, bool) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year < models.MinYear || year > models.MaxYear {
		return 0, false
	}
	return year, true
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	year, ok := yearVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
		return
	}

	doc, err := h.service.GetProgress(r.Context(), getUserID(r), year)
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	year, ok := yearVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
		return
	}

	var doc models.ProgressDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	stored, err := h.service.UpdateProgress(r.Context(), getUserID(r), year, &doc)
	if err != nil {
		writeError(w, err, "Failed to update progress")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	year, ok := yearVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
		return
	}

	if err := h.service.ResetProgress(r.Context(), getUserID(r), year); err != nil {
		writeError(w, err, "Failed to reset progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Year < models.MinYear || req.Year > models.MaxYear {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
		return
	}
	if len(req.QuestionIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_ids is required"})
		return
	}

	session, err := h.service.StartQuiz(r.Context(), getUserID(r), req)
	if err != nil {
		writeError(w, err, "Failed to start quiz")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) CompleteQuiz(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req models.CompleteQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.CompleteQuiz(r.Context(), getUserID(r), sessionID, req)
	if err != nil {
		writeError(w, err, "Failed to complete quiz")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < models.MinYear || year > models.MaxYear {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
		return
	}

	sessions, err := h.service.History(r.Context(), getUserID(r), year)
	if err != nil {
		writeError(w, err, "Failed to get history")
		return
	}
	writeJSON(w, http.StatusOK, models.SessionListResponse{Sessions: sessions, Total: len(sessions)})
}

func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(mux.Vars(r)["questionID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	bookmark, err := h.service.AddBookmark(r.Context(), getUserID(r), questionID)
	if err != nil {
		writeError(w, err, "Failed to add bookmark")
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(mux.Vars(r)["questionID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	if err := h.service.RemoveBookmark(r.Context(), getUserID(r), questionID); err != nil {
		writeError(w, err, "Failed to remove bookmark")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	var year *int
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < models.MinYear || y > models.MaxYear {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid year"})
			return
		}
		year = &y
	}

	entries, err := h.service.ListBookmarks(r.Context(), getUserID(r), year)
	if err != nil {
		writeError(w, err, "Failed to list bookmarks")
		return
	}
	writeJSON(w, http.StatusOK, models.BookmarkListResponse{Bookmarks: entries, Total: len(entries)})
}

// writeError maps the store sentinels onto HTTP statuses; anything else is
// a 500 with the caller's fallback message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Conflict"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
