package questions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tradebench/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.QuestionFilter{}
	year, err := yearQueryParam(query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	filter.Year = year

	if s := query.Get("section"); s != "" {
		section := models.Section(s)
		if !models.ValidSections[section] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid section"})
			return
		}
		filter.Section = &section
	}
	if d := query.Get("difficulty"); d != "" {
		difficulty := models.Difficulty(d)
		if !models.ValidDifficulties[difficulty] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be 'easy', 'medium', or 'hard'"})
			return
		}
		filter.Difficulty = &difficulty
	}

	questions := h.service.ListQuestions(r.Context(), filter)
	writeJSON(w, http.StatusOK, models.QuestionListResponse{Questions: questions, Total: len(questions)})
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	question, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get question"})
		return
	}
	if question == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) ListGuides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.GuideFilter{}
	year, err := yearQueryParam(query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	filter.Year = year

	if s := query.Get("section"); s != "" {
		section := models.Section(s)
		if !models.ValidSections[section] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid section"})
			return
		}
		filter.Section = &section
	}

	guides := h.service.ListGuides(r.Context(), filter)
	writeJSON(w, http.StatusOK, models.GuideListResponse{Guides: guides, Total: len(guides)})
}

func (h *Handler) GetGuide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid guide ID"})
		return
	}

	guide, err := h.service.GetGuide(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get guide"})
		return
	}
	if guide == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Guide not found"})
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20) // 50MB limit

	var req models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if len(req.Questions) == 0 && len(req.Guides) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No questions or guides in payload"})
		return
	}

	result, err := h.service.Import(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Import failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Default count
	if req.Count == 0 {
		req.Count = 5
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Generation failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func yearQueryParam(query url.Values) (*int, error) {
	s := query.Get("year")
	if s == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < models.MinYear || year > models.MaxYear {
		return nil, fmt.Errorf("year must be between %d and %d", models.MinYear, models.MaxYear)
	}
	return &year, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
