package dto

import "time"

type BookingResponse struct {
	ID            string    `json:"id"`
	Due           time.Time `json:"due"`
	Project       string    `json:"project"`
	Quantity      float64   `json:"quantity"`
	Delivered     bool      `json:"delivered"`
	OnSiteMinutes int       `json:"on_site_minutes"`
	Mix           string    `json:"mix"`
	Contact       string    `json:"contact,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	Scheduled     bool      `json:"scheduled"`
	HasCoords     bool      `json:"has_coords"`
}

type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}
