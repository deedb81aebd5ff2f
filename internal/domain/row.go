package domain

// RowKind discriminates the scheduler row union. Exactly one variant per
// row; only KindBooking carries a payload.
type RowKind int

const (
	KindBooking RowKind = iota
	KindReturn
	KindReload
	KindBreak
)

func (k RowKind) String() string {
	switch k {
	case KindBooking:
		return "booking"
	case KindReturn:
		return "return"
	case KindReload:
		return "reload"
	case KindBreak:
		return "break"
	}
	return "unknown"
}

// EndReturnKey identifies the implicit return-to-quarry row appended by the
// ordering engine once planning has started. It is synthesized on every
// ordering call, never persisted, and cannot be removed by the dispatcher.
const EndReturnKey = "end-return"

// Row is one entry in the dispatcher's ordered schedule: a real booking or
// one of the synthetic quarry/break markers. Key is the booking id for real
// rows and a generated key for inserted markers; keys are unique within a
// session.
type Row struct {
	Key     string
	Kind    RowKind
	Booking *Booking // nil unless Kind == KindBooking
	// Seq is the dispatcher-assigned position, 0 when unsequenced.
	Seq int
	// Included is false when the dispatcher has excluded the row from
	// synthesis. Synthetic rows are always included.
	Included bool
	// AutoEnd marks the implicit end-of-day return row.
	AutoEnd bool
}

// IsCollection reports whether the row is a booking collected from a site
// back to the quarry.
func (r Row) IsCollection() bool {
	return r.Kind == KindBooking && r.Booking != nil && !r.Booking.Delivered
}

// IsTripBoundary reports whether the row ends the current load: any quarry
// visit, whether a return or an in-place reload.
func (r Row) IsTripBoundary() bool {
	return r.Kind == KindReturn || r.Kind == KindReload
}
