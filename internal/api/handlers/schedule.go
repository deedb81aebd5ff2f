package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"concrete-dispatch-service/internal/api/dto"
	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/services"
)

// ScheduleHandler drives the scheduling workflow: validate the ordering,
// preview the itinerary, commit it, and report trip summaries.
type ScheduleHandler struct {
	Service *services.ScheduleService
}

func (h *ScheduleHandler) decodeSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	var req dto.ScheduleRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return nil, false
	}

	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return nil, false
	}

	session := domain.RestoreSession(day, req.Sequence, req.Excluded, req.Returns, req.Reloads, req.Breaks)
	return session, true
}

// writeScheduleError maps scheduling failures onto HTTP statuses:
// dispatcher-fixable problems are 422, everything else is opaque 500.
func writeScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, r, http.StatusUnprocessableEntity, vErr.Msg)
		return
	}

	var cErr *services.CoordinateError
	if errors.As(err, &cErr) {
		writeError(w, r, http.StatusUnprocessableEntity, cErr.Error())
		return
	}

	log.Error().Err(err).Str("path", r.URL.Path).Msg("schedule operation failed")
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	if err := h.Service.Validate(r.Context(), session); err != nil {
		writeScheduleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ValidateResponse{OK: true})
}

func (h *ScheduleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.Service.Preview)
}

func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.Service.Save)
}

func (h *ScheduleHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, session *domain.Session) (*services.SchedulePreview, error),
) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	preview, err := op(r.Context(), session)
	if err != nil {
		writeScheduleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, previewResponse(preview))
}

func (h *ScheduleHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, ok := h.decodeSession(w, r)
	if !ok {
		return
	}

	summaries, metrics, err := h.Service.Summaries(r.Context(), session)
	if err != nil {
		writeScheduleError(w, r, err)
		return
	}

	res := dto.SummariesResponse{Summaries: summaryResponses(summaries, metrics)}
	writeJSON(w, r, http.StatusOK, res)
}

func previewResponse(p *services.SchedulePreview) dto.PreviewResponse {
	res := dto.PreviewResponse{
		Events:    make([]dto.EventResponse, 0, len(p.Events)),
		Summaries: summaryResponses(p.Summaries, nil),
	}
	for _, ev := range p.Events {
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
	return res
}

func summaryResponses(summaries []services.TripSummary, metrics []services.TripMetrics) []dto.TripSummaryResponse {
	byTrip := make(map[int]services.TripMetrics, len(metrics))
	for _, m := range metrics {
		byTrip[m.Trip] = m
	}

	out := make([]dto.TripSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		res := dto.TripSummaryResponse{
			Trip:         s.Trip,
			DeliveredM3:  s.DeliveredM3,
			CollectedM3:  s.CollectedM3,
			OverCapacity: s.OverCapacity,
		}
		if m, ok := byTrip[s.Trip]; ok {
			res.Km = m.Km
			res.Minutes = m.Minutes
		}
		out = append(out, res)
	}
	return out
}
