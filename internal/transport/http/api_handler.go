package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// APIHandler serves the REST endpoints around the quiz session: login,
// topic listing, high scores, and the dashboard.
type APIHandler struct {
	service *app.QuizService
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{service: service}
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	user, err := h.service.Login(req.ID, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.Topics(r.Context())
	if err != nil {
		log.Printf("list topics: %v", err)
		writeError(w, http.StatusBadGateway, "failed to load topics")
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (h *APIHandler) HighScore(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	topicID := r.URL.Query().Get("topicId")
	if userID == "" || topicID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or topicId")
		return
	}
	score, err := h.service.HighScore(r.Context(), userID, topicID)
	if err != nil {
		// Degrade to zero; the start screen still renders.
		log.Printf("high score %s/%s: %v", userID, topicID, err)
		score = 0
	}
	writeJSON(w, http.StatusOK, map[string]int{"highScore": score})
}

func (h *APIHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}
	view, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("dashboard %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
