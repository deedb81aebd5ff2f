package domain

// MaxLoadM3 is the vehicle's per-trip payload in cubic metres. The fleet
// runs a single vehicle class, so this is effectively a constant.
const MaxLoadM3 = 8.0

// SpecialMixSuffix marks mixes that get the alternate calendar colour.
const SpecialMixSuffix = "SC"

// SystemSettings are dispatcher-managed operational settings, read-only to
// the scheduling core.
type SystemSettings struct {
	CalendarID    string
	Quarry        Coordinates
	BufferMinutes int
	// MaxSpeedKmh caps the average travel speed used to floor provider
	// durations; 0 disables the floor.
	MaxSpeedKmh    float64
	WashMinutes    int
	LoadingMinutes int
	MaxLoadM3      float64
}

// Normalized fills defaults for unset values.
func (s SystemSettings) Normalized() SystemSettings {
	if s.MaxLoadM3 <= 0 {
		s.MaxLoadM3 = MaxLoadM3
	}
	return s
}
