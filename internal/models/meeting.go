package models

import "time"

// Meeting statuses. Scheduled and met are normally derived from the meeting
// date rather than stored; only cancelled is written explicitly.
const (
	StatusScheduled = "scheduled"
	StatusMet       = "met"
	StatusCancelled = "cancelled"
)

// Parties a cancellation can be attributed to.
const (
	CancelledByUser   = "user"
	CancelledByFriend = "friend"
)

// Meeting represents one planned or past meetup with a friend.
// Date is a plain local calendar date; no time of day is stored.
type Meeting struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	FriendID    int       `db:"friend_id" json:"friend_id"`
	Date        string    `db:"date" json:"date"`
	Activity    string    `db:"activity" json:"activity"`
	Venue       string    `db:"venue" json:"venue"`
	City        string    `db:"city" json:"city"`
	Notes       string    `db:"notes" json:"notes"`
	Status      *string   `db:"status" json:"status,omitempty"`
	CancelledBy *string   `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TokenEvent is broadcasted through websockets when a friend's token row changes.
type TokenEvent struct {
	Type      string `json:"type"`
	FriendID  int    `json:"friend_id"`
	MeetingID int    `json:"meeting_id"`
	Token     any    `json:"token,omitempty"`
}
