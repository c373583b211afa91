package devapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/pkg/response"
	"github.com/excursio/excursio-client/internal/pkg/validator"
)

// Handler serves the Booking API contract the client consumes.
type Handler struct {
	store Store
}

// NewHandler creates a dev API handler over the given store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// ListExcursions handles GET /excursions
func (h *Handler) ListExcursions(w http.ResponseWriter, r *http.Request) {
	excursions, err := h.store.ListExcursions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list excursions failed")
		response.InternalError(w)
		return
	}

	dtos := make([]excursion.DTO, 0, len(excursions))
	for _, exc := range excursions {
		dtos = append(dtos, excursion.ToDTO(exc))
	}
	response.OK(w, dtos)
}

// GetExcursion handles GET /excursions/{id}
func (h *Handler) GetExcursion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid excursion id")
		return
	}

	exc, err := h.store.GetExcursion(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExcursionNotFound) {
			response.NotFound(w, "Excursion not found")
			return
		}
		log.Error().Err(err).Str("excursion_id", id.String()).Msg("get excursion failed")
		response.InternalError(w)
		return
	}

	response.OK(w, excursion.ToDTO(exc))
}

// CreateBooking handles POST /bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	record, err := h.store.CreateBooking(r.Context(), req)
	if err != nil {
		var insufficient *InsufficientError
		var reqErr *RequestError
		switch {
		case errors.As(err, &insufficient):
			// The authoritative rejection the client surfaces verbatim.
			response.Conflict(w, insufficient.Error())
		case errors.Is(err, ErrExcursionNotFound):
			response.NotFound(w, "Excursion not found")
		case errors.As(err, &reqErr):
			response.BadRequest(w, reqErr.Error())
		default:
			log.Error().Err(err).Msg("create booking failed")
			response.InternalError(w)
		}
		return
	}

	log.Info().
		Str("booking_id", record.ID.String()).
		Str("excursion_id", record.ExcursionID.String()).
		Int("quantity", record.Quantity).
		Msg("booking created")

	response.Created(w, struct {
		BookingID uuid.UUID      `json:"bookingId"`
		Status    booking.Status `json:"status"`
	}{BookingID: record.ID, Status: record.Status})
}

// ListBookings handles GET /bookings?userId=...
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing userId")
		return
	}

	records, err := h.store.ListBookings(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("list bookings failed")
		response.InternalError(w)
		return
	}
	if records == nil {
		records = []booking.Booking{}
	}
	response.OK(w, records)
}
