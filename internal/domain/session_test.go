package domain

import (
	"errors"
	"testing"
	"time"
)

func day() time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

func testBookings() []*Booking {
	due := day().Add(9 * time.Hour)
	return []*Booking{
		{ID: "bk-1", Due: due, ProjectName: "Riverside", Quantity: 6, Delivered: true, MixName: "C25ST"},
		{ID: "bk-2", Due: due.Add(2 * time.Hour), ProjectName: "Hilltop", Quantity: 4, Delivered: true, MixName: "C30ST"},
		{ID: "bk-3", Due: due.Add(4 * time.Hour), ProjectName: "Quay Lane", Quantity: 2, Delivered: false, MixName: "C25ST"},
	}
}

func keys(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Key)
	}
	return out
}

func TestRowsBeforePlanningHidesReturns(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()
	s.InsertReturn()

	display := s.Rows(bookings, DisplayView)
	for _, r := range display {
		if r.Kind == KindReturn {
			t.Fatalf("display view shows a return row before planning started: %q", r.Key)
		}
	}

	// The authoritative view keeps inserted returns but has no end return
	// yet: nothing is sequenced except the synthetic row.
	auth := s.Rows(bookings, AuthoritativeView)
	returns := 0
	for _, r := range auth {
		if r.Kind == KindReturn {
			returns++
			if r.AutoEnd {
				t.Fatal("end return appended before any booking was sequenced")
			}
		}
	}
	if returns != 1 {
		t.Fatalf("authoritative view returns = %d, want 1", returns)
	}
}

func TestRowsAppendsEndReturnOncePlanningStarts(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.AssignNext("bk-1")

	rows := s.Rows(bookings, AuthoritativeView)
	last := rows[0]
	sawEnd := false
	for _, r := range rows {
		if r.AutoEnd {
			sawEnd = true
			last = r
		}
	}
	if !sawEnd {
		t.Fatal("no end return after planning started")
	}
	if last.Seq != 2 {
		t.Fatalf("end return seq = %d, want 2 (after max observed)", last.Seq)
	}
	if err := s.RemoveSynthetic(EndReturnKey); !errors.Is(err, ErrEndReturnFixed) {
		t.Fatalf("removing the end return: err = %v, want ErrEndReturnFixed", err)
	}

	// Display view shows returns too once planning has started.
	display := s.Rows(bookings, DisplayView)
	sawEnd = false
	for _, r := range display {
		if r.AutoEnd {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatal("display view missing the end return after planning started")
	}
}

func TestRowsOrderingAndTieBreaks(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.AssignNext("bk-2") // 1
	s.AssignNext("bk-1") // 2

	rows := s.Rows(bookings, AuthoritativeView)
	got := keys(rows)
	// bk-3 is unsequenced and sorts after the end return.
	want := []string{"bk-2", "bk-1", EndReturnKey, "bk-3"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("row order = %v, want %v", got, want)
		}
	}
}

func TestInsertReloadShiftsLaterRows(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.AssignNext("bk-3") // collection, 1
	s.AssignNext("bk-1") // delivery, 2

	key := s.InsertReload(bookings)
	if got := s.Sequence(key); got != 2 {
		t.Fatalf("reload seq = %d, want 2 (after the collection)", got)
	}
	if got := s.Sequence("bk-1"); got != 3 {
		t.Fatalf("bk-1 seq = %d, want 3 (shifted)", got)
	}
	if got := s.Sequence("bk-3"); got != 1 {
		t.Fatalf("bk-3 seq = %d, want 1 (unshifted)", got)
	}
}

func TestInsertReloadWithoutCollection(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.AssignNext("bk-1")

	key := s.InsertReload(bookings)
	if got := s.Sequence(key); got != 1 {
		t.Fatalf("reload seq = %d, want 1", got)
	}
	// No shift happens; the validators reject the arrangement later.
	if got := s.Sequence("bk-1"); got != 1 {
		t.Fatalf("bk-1 seq = %d, want 1", got)
	}
}

func TestClearSequencesKeepsReturnsDropsBreaks(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.AssignNext("bk-1")
	retKey := s.InsertReturn()
	brkKey := s.InsertBreak()

	s.ClearSequences()

	rows := s.Rows(bookings, AuthoritativeView)
	sawReturn, sawBreak := false, false
	for _, r := range rows {
		if r.Key == retKey {
			sawReturn = true
			if r.Seq != 0 {
				t.Fatalf("return row seq = %d after clear, want 0", r.Seq)
			}
		}
		if r.Key == brkKey {
			sawBreak = true
		}
	}
	if !sawReturn {
		t.Fatal("inserted return removed by clear; it should only lose its sequence")
	}
	if sawBreak {
		t.Fatal("break row survived clear")
	}
}

func TestSetIncluded(t *testing.T) {
	s := NewSession(day())
	bookings := testBookings()

	s.SetIncluded("bk-2", false)

	for _, r := range s.Rows(bookings, AuthoritativeView) {
		if r.Key == "bk-2" && r.Included {
			t.Fatal("excluded row still marked included")
		}
		if r.Key == "bk-1" && !r.Included {
			t.Fatal("untouched row not included by default")
		}
	}

	s.SetIncluded("bk-2", true)
	if !s.Included("bk-2") {
		t.Fatal("row not re-included")
	}
}

func TestRemoveSyntheticUnknownKey(t *testing.T) {
	s := NewSession(day())
	if err := s.RemoveSynthetic("no-such-row"); err == nil {
		t.Fatal("expected an error for an unknown synthetic key")
	}
}
