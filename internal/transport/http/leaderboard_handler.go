package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
)

type LeaderboardHandler struct {
	service *app.QuizService
}

func NewLeaderboardHandler(service *app.QuizService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type rankedLeaderboard struct {
	ContentID string                 `json:"contentId"`
	Overall   []domain.RankedEntry   `json:"overall"`
	Matches   [][]domain.RankedEntry `json:"matches"`
}

// Generate serves the raw leaderboard: the user-major overall list plus a matchN list per
// match, as the session backend does.
func (h *LeaderboardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	contentID := r.URL.Query().Get("videoId")
	if contentID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing videoId"})
		return
	}
	view, err := h.service.Leaderboard(r.Context(), contentID)
	if err != nil {
		log.Printf("leaderboard %s: %v", contentID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: app.UserMessage(err)})
		return
	}
	data := map[string]interface{}{"overall": view.Overall}
	for n := 1; n <= view.MatchCount(); n++ {
		data["match"+strconv.Itoa(n)] = view.Match(n)
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

// Ranked serves the reshaped leaderboard with display ranks.
func (h *LeaderboardHandler) Ranked(w http.ResponseWriter, r *http.Request) {
	contentID := r.URL.Query().Get("contentId")
	if contentID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing contentId"})
		return
	}
	view, err := h.service.Leaderboard(r.Context(), contentID)
	if err != nil {
		log.Printf("leaderboard %s: %v", contentID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: app.UserMessage(err)})
		return
	}
	out := rankedLeaderboard{
		ContentID: contentID,
		Overall:   app.RankOverall(view.Overall),
		Matches:   make([][]domain.RankedEntry, 0, view.MatchCount()),
	}
	for n := 1; n <= view.MatchCount(); n++ {
		out.Matches = append(out.Matches, app.RankMatch(view.Match(n)))
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: out})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
