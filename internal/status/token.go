package status

import (
	"fmt"

	"friendo-service/internal/models"
)

// Token colors. These are semantic names the mobile clients map to their
// theme palette, not raw color values.
const (
	ColorGreen = "green"
	ColorPink  = "pink"
	ColorRed   = "red"
)

// Token is the colored chip shown for one meeting on a friend's row.
type Token struct {
	MeetingID int    `json:"meeting_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Label     string `json:"label"`
	Color     string `json:"color"`
}

// TokenFor maps a meeting to its display token.
//
//	scheduled        -> Scheduled / green
//	met              -> Met / green
//	cancelled, user   -> Cancelled / pink
//	cancelled, friend -> Cancelled / red
//	cancelled, unattributed -> Cancelled / red
func TokenFor(m models.Meeting, d Derived) Token {
	t := Token{MeetingID: m.ID, Date: m.Date, Status: d.Status}
	switch d.Status {
	case models.StatusCancelled:
		t.Label = "Cancelled"
		if d.CancelledBy == models.CancelledByUser {
			t.Color = ColorPink
		} else {
			t.Color = ColorRed
		}
	case models.StatusMet:
		t.Label = "Met"
		t.Color = ColorGreen
	default:
		t.Label = "Scheduled"
		t.Color = ColorGreen
	}
	return t
}

const scheduledDetail = "This meeting is on your calendar. Confirm the time with your friend a day " +
	"ahead, add the venue to your maps, and set a reminder so you arrive a few minutes early. " +
	"After you meet, the token turns to Met on its own once the day has passed."

// Detail returns the read-only disclosure text for a tapped token.
func Detail(m models.Meeting, d Derived) string {
	switch d.Status {
	case models.StatusCancelled:
		return fmt.Sprintf("Originally scheduled for %s. This meeting was cancelled.", m.Date)
	case models.StatusMet:
		return fmt.Sprintf("You met on %s.", m.Date)
	default:
		return scheduledDetail
	}
}
