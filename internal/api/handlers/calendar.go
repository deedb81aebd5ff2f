package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"concrete-dispatch-service/internal/api/dto"
	"concrete-dispatch-service/internal/services"
)

// CalendarHandler exposes the saved itinerary for the calendar screen.
type CalendarHandler struct {
	Service *services.ScheduleService
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.Service.DayEvents(r.Context(), day)
	if err != nil {
		log.Error().Err(err).Msg("list calendar events failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListEventsResponse{
		Events: make([]dto.EventResponse, 0, len(events)),
	}
	for _, ev := range events {
		res.Events = append(res.Events, dto.EventResponse{
			Type:         string(ev.Type),
			Start:        ev.Start,
			End:          ev.End,
			BookingID:    ev.BookingID,
			Summary:      ev.Summary,
			Description:  ev.Description,
			Location:     ev.Location,
			Color:        ev.Color,
			OverCapacity: ev.OverCapacity,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
