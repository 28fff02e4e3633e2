package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var in bookingRequest
	if err := decode(r, &in); err != nil {
		failBooking(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), u.ID, app.BookingRequest{
		UserID:         in.UserID,
		ExperienceID:   in.ExperienceID,
		BookingDate:    in.BookingDate,
		NumberOfPeople: in.NumberOfPeople,
		Status:         domain.BookingStatus(in.Status),
		ApplyDiscount:  in.ApplyDiscount,
	})
	if err != nil {
		failBooking(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "booking": viewBooking(b)})
}

func (h *Handlers) quoteBooking(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var in quoteRequest
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}
	q, rid, err := h.Bookings.Quote(r.Context(), u.ID, in.ExperienceID, in.NumberOfPeople, in.ApplyDiscount)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewQuote(q, rid))
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	bs, err := h.Bookings.List(r.Context(), u.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, viewBooking(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out})
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	b, err := h.Bookings.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewBooking(b))
}
