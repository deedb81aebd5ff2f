package services

import (
	"fmt"
	"sort"
	"strings"

	"concrete-dispatch-service/internal/domain"
)

// ValidationError is a dispatcher-facing message about a schedule that
// cannot be synthesized yet. It is recoverable: the dispatcher edits the
// sequence and tries again.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func rowLabel(r domain.Row) string {
	if r.Kind == domain.KindBooking && r.Booking != nil {
		return fmt.Sprintf("booking for %s", r.Booking.ProjectName)
	}
	if r.AutoEnd {
		return "end-of-day return"
	}
	return r.Kind.String() + " row"
}

// ValidateSequence checks that the included rows carry sequence values
// forming an unbroken run 1..n with no duplicates. The first violation
// found is reported.
func ValidateSequence(rows []domain.Row) error {
	expected := 1
	for _, r := range rows {
		if !r.Included {
			continue
		}
		if r.Seq < 1 {
			return &ValidationError{Msg: fmt.Sprintf("the %s has no sequence position", rowLabel(r))}
		}
		if r.Seq != expected {
			return &ValidationError{Msg: fmt.Sprintf(
				"sequence is broken at the %s: expected value %d but found %d",
				rowLabel(r), expected, r.Seq,
			)}
		}
		expected++
	}
	return nil
}

// ValidateMixes checks that each trip carries a single concrete mix
// family. Mix families are identified by the last two characters of the
// mix name; trips are bounded by return and reload rows.
func ValidateMixes(rows []domain.Row) error {
	suffixes := make(map[string]struct{})

	flush := func() error {
		if len(suffixes) > 1 {
			list := make([]string, 0, len(suffixes))
			for s := range suffixes {
				list = append(list, s)
			}
			sort.Strings(list)
			return &ValidationError{Msg: fmt.Sprintf(
				"a trip mixes incompatible concrete types: %s",
				strings.Join(list, ", "),
			)}
		}
		suffixes = make(map[string]struct{})
		return nil
	}

	for _, r := range rows {
		if !r.Included {
			continue
		}
		if r.IsTripBoundary() {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if r.Kind == domain.KindBooking && r.Booking.Delivered {
			suffixes[r.Booking.MixSuffix()] = struct{}{}
		}
	}
	return flush()
}

// ValidateReloads checks that every reload-at-quarry row comes after at
// least one collection. Returning to the quarry does not reset the
// seen-collection flag; only an actual collection makes a reload sensible.
func ValidateReloads(rows []domain.Row) error {
	seenCollection := false
	for _, r := range rows {
		if !r.Included {
			continue
		}
		if r.IsCollection() {
			seenCollection = true
			continue
		}
		if r.Kind == domain.KindReload && !seenCollection {
			return &ValidationError{Msg: "a reload at the quarry must come after a collection; move it below a collection row"}
		}
	}
	return nil
}

// ValidateQuantities rejects any single included delivery that alone
// exceeds the vehicle's payload. Such rows can never be scheduled and the
// synthesizer would silently drop them.
func ValidateQuantities(rows []domain.Row, maxLoad float64) error {
	for _, r := range rows {
		if !r.Included || r.Kind != domain.KindBooking || !r.Booking.Delivered {
			continue
		}
		if r.Booking.Quantity > maxLoad {
			return &ValidationError{Msg: fmt.Sprintf(
				"the %s is %.2f m3, more than the vehicle can carry (%.2f m3)",
				rowLabel(r), r.Booking.Quantity, maxLoad,
			)}
		}
	}
	return nil
}

// Validate runs the three ordering checks that gate synthesis, in the
// order the dispatcher can most easily act on.
func Validate(rows []domain.Row) error {
	if err := ValidateSequence(rows); err != nil {
		return err
	}
	if err := ValidateMixes(rows); err != nil {
		return err
	}
	return ValidateReloads(rows)
}
