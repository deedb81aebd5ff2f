package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// View selects which ordering a Rows call produces.
type View int

const (
	// DisplayView hides return rows (including the implicit end return)
	// until the dispatcher has started sequencing, so the screen does not
	// fill with placeholder returns.
	DisplayView View = iota
	// AuthoritativeView always includes every synthetic row plus the
	// implicit end return. Validators, synthesis and aggregation all read
	// this view.
	AuthoritativeView
)

// Rows without a sequence sort after every sequenced row.
const unsequenced = 1 << 30

var ErrEndReturnFixed = errors.New("the end-of-day return cannot be removed")

// Session holds the dispatcher's editing state for one selected day: the
// sequence map, per-booking inclusion and the synthetic rows inserted so
// far. It is built fresh whenever the day or week selection changes and is
// never shared between concurrent passes.
type Session struct {
	Day time.Time

	sequence map[string]int
	excluded map[string]struct{}
	returns  []string
	reloads  []string
	breaks   []string
}

func NewSession(day time.Time) *Session {
	return &Session{
		Day:      day.UTC().Truncate(24 * time.Hour),
		sequence: make(map[string]int),
		excluded: make(map[string]struct{}),
	}
}

// RestoreSession rebuilds a session from externally held editing state
// (the interactive client owns the session between calls).
func RestoreSession(day time.Time, sequence map[string]int, excluded, returns, reloads, breaks []string) *Session {
	s := NewSession(day)
	for key, n := range sequence {
		if n >= 1 {
			s.sequence[key] = n
		}
	}
	for _, key := range excluded {
		s.excluded[key] = struct{}{}
	}
	s.returns = append(s.returns, returns...)
	s.reloads = append(s.reloads, reloads...)
	s.breaks = append(s.breaks, breaks...)
	return s
}

// Sequence returns the assigned position for a row key, 0 when unsequenced.
func (s *Session) Sequence(key string) int { return s.sequence[key] }

// Included reports whether a booking row participates in synthesis.
func (s *Session) Included(key string) bool {
	_, off := s.excluded[key]
	return !off
}

// SetIncluded toggles a booking row in or out of synthesis. Excluded rows
// stay visible but are skipped by validators and the synthesizer.
func (s *Session) SetIncluded(key string, included bool) {
	if included {
		delete(s.excluded, key)
		return
	}
	s.excluded[key] = struct{}{}
}

func (s *Session) maxSeq() int {
	max := 0
	for _, n := range s.sequence {
		if n > max {
			max = n
		}
	}
	return max
}

// planningStarted reports whether any real booking row has been sequenced.
func (s *Session) planningStarted(bookings []*Booking) bool {
	for _, b := range bookings {
		if s.sequence[b.ID] >= 1 {
			return true
		}
	}
	return false
}

// AssignNext gives a row the next free sequence position. This is the
// row-tap workflow: the dispatcher builds the order incrementally rather
// than dragging rows around.
func (s *Session) AssignNext(key string) int {
	n := s.maxSeq() + 1
	s.sequence[key] = n
	return n
}

// InsertReturn appends a return-to-quarry marker at the end of the current
// order and returns its row key.
func (s *Session) InsertReturn() string {
	key := "return-" + uuid.NewString()
	s.returns = append(s.returns, key)
	s.sequence[key] = s.maxSeq() + 1
	return key
}

// InsertBreak appends a 30-minute break marker at the end of the current
// order and returns its row key.
func (s *Session) InsertBreak() string {
	key := "break-" + uuid.NewString()
	s.breaks = append(s.breaks, key)
	s.sequence[key] = s.maxSeq() + 1
	return key
}

// InsertReload places a reload-at-quarry marker directly after the last
// included collection row, shifting every later row down one position. With
// no prior collection the reload lands at position 1; the reload-ordering
// validator rejects that arrangement at update time.
func (s *Session) InsertReload(bookings []*Booking) string {
	slot := 0
	for _, row := range s.Rows(bookings, AuthoritativeView) {
		if row.IsCollection() && row.Included && row.Seq >= 1 {
			slot = row.Seq + 1
		}
	}

	if slot > 0 {
		for key, n := range s.sequence {
			if n >= slot {
				s.sequence[key] = n + 1
			}
		}
	} else {
		// No prior collection: land at position 1 unshifted and let the
		// reload-ordering validator reject the arrangement at update time.
		slot = 1
	}

	key := "reload-" + uuid.NewString()
	s.reloads = append(s.reloads, key)
	s.sequence[key] = slot
	return key
}

// RemoveSynthetic deletes an inserted return, reload or break row together
// with its sequence entry. The implicit end return is refused.
func (s *Session) RemoveSynthetic(key string) error {
	if key == EndReturnKey {
		return ErrEndReturnFixed
	}

	drop := func(list []string) ([]string, bool) {
		for i, k := range list {
			if k == key {
				return append(list[:i], list[i+1:]...), true
			}
		}
		return list, false
	}

	var ok bool
	if s.returns, ok = drop(s.returns); ok {
		delete(s.sequence, key)
		return nil
	}
	if s.reloads, ok = drop(s.reloads); ok {
		delete(s.sequence, key)
		return nil
	}
	if s.breaks, ok = drop(s.breaks); ok {
		delete(s.sequence, key)
		return nil
	}
	return fmt.Errorf("no synthetic row with key %q", key)
}

// ClearSequences empties the sequence map and drops break rows. Inserted
// returns and reloads survive as unsequenced rows.
func (s *Session) ClearSequences() {
	s.sequence = make(map[string]int)
	s.breaks = nil
}

// Rows merges the day's bookings with the inserted synthetic rows into a
// single ordered sequence. Ordering is by sequence value, unsequenced rows
// last, ties broken by row key. Once planning has started the implicit end
// return is appended directly after the highest sequenced row.
func (s *Session) Rows(bookings []*Booking, view View) []Row {
	started := s.planningStarted(bookings)
	showReturns := view == AuthoritativeView || started

	rows := make([]Row, 0, len(bookings)+len(s.returns)+len(s.reloads)+len(s.breaks)+1)

	for _, b := range bookings {
		rows = append(rows, Row{
			Key:      b.ID,
			Kind:     KindBooking,
			Booking:  b,
			Seq:      s.sequence[b.ID],
			Included: s.Included(b.ID),
		})
	}

	if showReturns {
		for _, key := range s.returns {
			rows = append(rows, Row{Key: key, Kind: KindReturn, Seq: s.sequence[key], Included: true})
		}
	}
	for _, key := range s.reloads {
		rows = append(rows, Row{Key: key, Kind: KindReload, Seq: s.sequence[key], Included: true})
	}
	for _, key := range s.breaks {
		rows = append(rows, Row{Key: key, Kind: KindBreak, Seq: s.sequence[key], Included: true})
	}

	if started && showReturns {
		rows = append(rows, Row{
			Key:      EndReturnKey,
			Kind:     KindReturn,
			Seq:      s.maxSeq() + 1,
			Included: true,
			AutoEnd:  true,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := effectiveSeq(rows[i]), effectiveSeq(rows[j])
		if a != b {
			return a < b
		}
		return rows[i].Key < rows[j].Key
	})

	return rows
}

func effectiveSeq(r Row) int {
	if r.Seq < 1 {
		return unsequenced
	}
	return r.Seq
}
