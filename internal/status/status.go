package status

import (
	"strings"
	"time"

	"friendo-service/internal/models"
)

// CancelMarker is the legacy notes prefix older mobile clients wrote (and
// still parse) to flag a cancelled meeting. The explicit status column is
// the source of truth; the marker is kept in sync for those clients.
const CancelMarker = "[CANCELLED]"

const dateLayout = "2006-01-02"

// Derived is the effective display state of a meeting.
type Derived struct {
	Status      string
	CancelledBy string
}

// Derive computes the effective status of a meeting at the given instant.
// It is pure: same meeting and instant, same answer.
//
// Cancellation (explicit column or legacy notes marker) wins. Otherwise the
// meeting counts as met once the local day of its date has fully ended; a
// meeting dated today stays scheduled until midnight, since no time of day
// is stored. A date that does not parse derives scheduled.
func Derive(m models.Meeting, now time.Time) Derived {
	if isCancelled(m) {
		d := Derived{Status: models.StatusCancelled}
		if m.CancelledBy != nil {
			d.CancelledBy = *m.CancelledBy
		}
		return d
	}

	date, err := time.ParseInLocation(dateLayout, m.Date, now.Location())
	if err != nil {
		return Derived{Status: models.StatusScheduled}
	}

	endOfDay := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	if now.After(endOfDay) {
		return Derived{Status: models.StatusMet}
	}
	return Derived{Status: models.StatusScheduled}
}

func isCancelled(m models.Meeting) bool {
	if m.Status != nil && *m.Status == models.StatusCancelled {
		return true
	}
	return strings.HasPrefix(m.Notes, CancelMarker)
}

// MigrateLegacy lifts a legacy notes marker into the explicit status
// column. The marker stays in the notes for older clients. Applying it
// twice changes nothing.
func MigrateLegacy(m models.Meeting) models.Meeting {
	if !strings.HasPrefix(m.Notes, CancelMarker) {
		return m
	}
	if m.Status == nil || *m.Status != models.StatusCancelled {
		cancelled := models.StatusCancelled
		m.Status = &cancelled
	}
	return m
}

// DisplayNotes strips the legacy marker for presentation.
func DisplayNotes(notes string) string {
	if !strings.HasPrefix(notes, CancelMarker) {
		return notes
	}
	return strings.TrimPrefix(strings.TrimPrefix(notes, CancelMarker), " ")
}

// MarkNotes prefixes notes with the legacy cancellation marker, once.
func MarkNotes(notes string) string {
	if strings.HasPrefix(notes, CancelMarker) {
		return notes
	}
	return CancelMarker + " " + notes
}
