package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"concrete-dispatch-service/internal/api/dto"
	"concrete-dispatch-service/internal/services"
)

// BookingHandler exposes read-only booking retrieval for the scheduler
// screen. Bookings are created and edited elsewhere.
type BookingHandler struct {
	Service *services.ScheduleService
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	day, err := time.Parse("2006-01-02", r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	bookings, err := h.Service.DayBookings(r.Context(), day)
	if err != nil {
		log.Error().Err(err).Msg("list bookings failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListBookingsResponse{
		Bookings: make([]dto.BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		res.Bookings = append(res.Bookings, dto.BookingResponse{
			ID:            b.ID,
			Due:           b.Due,
			Project:       b.ProjectName,
			Quantity:      b.Quantity,
			Delivered:     b.Delivered,
			OnSiteMinutes: b.OnSiteMinutes,
			Mix:           b.MixName,
			Contact:       b.ContactName,
			Comment:       b.Comment,
			Scheduled:     b.Scheduled,
			HasCoords:     b.HasCoords(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
