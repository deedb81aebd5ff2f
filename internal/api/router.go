package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"concrete-dispatch-service/internal/api/handlers"
	"concrete-dispatch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(svc *services.ScheduleService, withMetrics bool) http.Handler {
	mux := http.NewServeMux()

	bookingHandler := &handlers.BookingHandler{Service: svc}
	calendarHandler := &handlers.CalendarHandler{Service: svc}
	scheduleHandler := &handlers.ScheduleHandler{Service: svc}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/bookings", bookingHandler.List)
	mux.HandleFunc("/calendar", calendarHandler.List)
	mux.HandleFunc("/schedule/validate", scheduleHandler.Validate)
	mux.HandleFunc("/schedule/preview", scheduleHandler.Preview)
	mux.HandleFunc("/schedule/save", scheduleHandler.Save)
	mux.HandleFunc("/schedule/summaries", scheduleHandler.Summaries)

	if withMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return loggingMiddleware(mux)
}
