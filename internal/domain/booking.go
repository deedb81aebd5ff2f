package domain

import "time"

// Booking is a delivery or collection request for concrete, created and
// edited outside the scheduler. The scheduler treats it as read-only apart
// from the Scheduled flag, which flips once a saved itinerary references it.
type Booking struct {
	ID          string
	Due         time.Time
	ProjectName string
	// Quantity of concrete in cubic metres.
	Quantity float64
	// Delivered true means quarry -> site; false means a collection that
	// originates at the site and ends back at the quarry.
	Delivered bool
	// Minutes spent on site, deliveries only.
	OnSiteMinutes int
	MixName       string
	// ProjectCoords come from the project record; CustomCoords, when set,
	// override them for this booking only.
	ProjectCoords *Coordinates
	CustomCoords  *Coordinates
	ContactName   string
	Comment       string
	Scheduled     bool
}

// SiteCoords resolves the delivery location, preferring per-booking custom
// coordinates over the project's.
func (b *Booking) SiteCoords() (Coordinates, bool) {
	if b.CustomCoords != nil && !b.CustomCoords.IsZero() {
		return *b.CustomCoords, true
	}
	if b.ProjectCoords != nil && !b.ProjectCoords.IsZero() {
		return *b.ProjectCoords, false
	}
	return Coordinates{}, false
}

// HasCoords reports whether any usable site location exists.
func (b *Booking) HasCoords() bool {
	if b.CustomCoords != nil && !b.CustomCoords.IsZero() {
		return true
	}
	return b.ProjectCoords != nil && !b.ProjectCoords.IsZero()
}

// MixSuffix is the last two characters of the mix name, the part that
// identifies the mix family for same-trip compatibility.
func (b *Booking) MixSuffix() string {
	if len(b.MixName) < 2 {
		return b.MixName
	}
	return b.MixName[len(b.MixName)-2:]
}
