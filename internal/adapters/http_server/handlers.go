package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
)

type Handlers struct {
	Accounts *app.AccountService
	Queries  *app.QueryService
	Bookings *app.BookingService
	Games    *app.GameService
	Rewards  *app.RewardService
	Admin    *app.AdminService

	// AuthRatePerMin caps signup/login attempts per client IP; 0 disables it.
	AuthRatePerMin int
	// TrustProxy keys the limiter on forwarding headers instead of the peer.
	TrustProxy bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	requireUser := RequireUser(h.Accounts)
	authLimit := RateLimit(h.AuthRatePerMin, h.TrustProxy)

	s.mux.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/signup", h.signUp)
			r.With(authLimit).Post("/login", h.login)
			r.With(requireUser).Get("/me", h.me)
			r.With(requireUser).Get("/check-admin", h.checkAdmin)
		})

		api.Route("/experiences", func(r chi.Router) {
			r.Get("/", h.browseExperiences)
			r.Get("/locations", h.locations)
			r.Get("/price-range", h.priceRange)
			r.Get("/featured", h.featured)
			r.Get("/{id}", h.getExperience)
		})

		api.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Post("/bookings", h.createBooking)
			r.Post("/bookings/quote", h.quoteBooking)
			r.Get("/bookings", h.listBookings)
			r.Get("/bookings/{id}", h.getBooking)

			r.Get("/games/scores/{experienceId}", h.gameStatus)
			r.Post("/games/scores/{experienceId}", h.submitScore)

			r.Get("/rewards", h.rewards)
		})

		api.Route("/admin", func(r chi.Router) {
			r.Use(requireUser, RequireAdmin(h.Accounts))
			r.Post("/experiences", h.createExperience)
			r.Put("/experiences/{id}", h.updateExperience)
			r.Delete("/experiences/{id}", h.deleteExperience)
		})
	})
}

// intParam reads a positive integer query parameter, falling back to def and
// capping at ceil.
func intParam(r *http.Request, key string, def, ceil int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, ceil), true
}
