package dto

import "time"

// ScheduleRequest carries the dispatcher's editing session state. The
// interactive client owns the session; every scheduling call sends the
// complete picture for the selected day.
type ScheduleRequest struct {
	// Day in YYYY-MM-DD.
	Day      string         `json:"day"`
	Sequence map[string]int `json:"sequence"`
	Excluded []string       `json:"excluded"`
	Returns  []string       `json:"returns"`
	Reloads  []string       `json:"reloads"`
	Breaks   []string       `json:"breaks"`
}

type EventResponse struct {
	Type         string    `json:"type"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	BookingID    string    `json:"booking_id,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	Color        string    `json:"color,omitempty"`
	OverCapacity bool      `json:"over_capacity"`
}

type TripSummaryResponse struct {
	Trip         int     `json:"trip"`
	DeliveredM3  float64 `json:"delivered_m3"`
	CollectedM3  float64 `json:"collected_m3"`
	OverCapacity bool    `json:"over_capacity"`
	Km           float64 `json:"km,omitempty"`
	Minutes      int     `json:"minutes,omitempty"`
}

type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
}

type PreviewResponse struct {
	Events    []EventResponse       `json:"events"`
	Summaries []TripSummaryResponse `json:"summaries"`
}

type SummariesResponse struct {
	Summaries []TripSummaryResponse `json:"summaries"`
}

type ValidateResponse struct {
	OK bool `json:"ok"`
}
