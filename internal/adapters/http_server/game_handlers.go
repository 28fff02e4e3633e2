package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
)

func (h *Handlers) gameStatus(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	st, err := h.Games.Status(r.Context(), u.ID, chi.URLParam(r, "experienceId"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type submitResponse struct {
	Success   bool               `json:"success"`
	Updated   bool               `json:"updated"`
	HighScore int                `json:"highScore"`
	Reward    loyalty.GameReward `json:"reward"`
}

func (h *Handlers) submitScore(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var in scoreRequest
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.Games.Submit(r.Context(), u.ID, chi.URLParam(r, "experienceId"), *in.Score, in.Completed)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Updated:   res.Updated,
		HighScore: res.Status.HighScore,
		Reward:    res.Status.GameReward,
	})
}

func (h *Handlers) rewards(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	v, err := h.Rewards.ForUser(r.Context(), u.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
