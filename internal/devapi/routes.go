package devapi

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the dev API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/excursions", h.ListExcursions)
	r.Get("/excursions/{id}", h.GetExcursion)
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings", h.ListBookings)

	return r
}
