package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handlers) createExperience(w http.ResponseWriter, r *http.Request) {
	var in experienceInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	e, err := in.toDomain()
	if err != nil {
		fail(w, r, err)
		return
	}
	created, err := h.Admin.Create(r.Context(), e)
	if err != nil {
		fail(w, r, err)
		return
	}
	u, _ := UserFrom(r.Context())
	log.Info().Str("admin_id", u.ID).Str("experience_id", created.ID).Msg("experience created")
	writeJSON(w, http.StatusCreated, viewExperience(created))
}

func (h *Handlers) updateExperience(w http.ResponseWriter, r *http.Request) {
	var in experienceInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	e, err := in.toDomain()
	if err != nil {
		fail(w, r, err)
		return
	}
	updated, err := h.Admin.Update(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewExperience(updated))
}

func (h *Handlers) deleteExperience(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admin.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	u, _ := UserFrom(r.Context())
	log.Info().Str("admin_id", u.ID).Str("experience_id", id).Msg("experience deleted")
	w.WriteHeader(http.StatusNoContent)
}
