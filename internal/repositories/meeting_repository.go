package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

var ErrMeetingNotFound = errors.New("meeting not found")

const meetingColumns = `id, user_id, friend_id, date, activity, venue, city, notes, status, cancelled_by, created_at`

// MeetingRepository abstracts meeting persistence. All mutations address a
// single record by id; the last write wins.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, m models.Meeting) (models.Meeting, error)
	GetMeeting(ctx context.Context, meetingID int) (models.Meeting, error)
	ListMeetingsForFriend(ctx context.Context, friendID int) ([]models.Meeting, error)
	ListMeetingsOnDate(ctx context.Context, date string) ([]models.Meeting, error)
	MarkCancelled(ctx context.Context, meetingID int, cancelledBy *string) (models.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID int) error
}

// MeetingRepo is a sqlx implementation of MeetingRepository.
type MeetingRepo struct {
	db *sqlx.DB
}

// NewMeetingRepo constructs a MeetingRepo.
func NewMeetingRepo(db *sqlx.DB) *MeetingRepo {
	return &MeetingRepo{db: db}
}

// CreateMeeting stores a new meeting.
func (r *MeetingRepo) CreateMeeting(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	var created models.Meeting
	err := r.db.QueryRowxContext(ctx, `INSERT INTO meetings (user_id, friend_id, date, activity, venue, city, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+meetingColumns,
		m.UserID, m.FriendID, m.Date, m.Activity, m.Venue, m.City, m.Notes).
		StructScan(&created)
	return created, err
}

// GetMeeting fetches a meeting by id.
func (r *MeetingRepo) GetMeeting(ctx context.Context, meetingID int) (models.Meeting, error) {
	var m models.Meeting
	err := r.db.GetContext(ctx, &m, `SELECT `+meetingColumns+` FROM meetings WHERE id=$1`, meetingID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meeting{}, ErrMeetingNotFound
	}
	return m, err
}

// ListMeetingsForFriend returns all meetings with a friend, earliest first.
func (r *MeetingRepo) ListMeetingsForFriend(ctx context.Context, friendID int) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.SelectContext(ctx, &meetings, `SELECT `+meetingColumns+` FROM meetings WHERE friend_id=$1 ORDER BY date ASC, id ASC`, friendID)
	return meetings, err
}

// ListMeetingsOnDate returns every not-cancelled meeting on the given date,
// across users. Used by the reminder sweep.
func (r *MeetingRepo) ListMeetingsOnDate(ctx context.Context, date string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.SelectContext(ctx, &meetings, `SELECT `+meetingColumns+` FROM meetings
        WHERE date=$1 AND (status IS NULL OR status <> 'cancelled') AND notes NOT LIKE '[CANCELLED]%'
        ORDER BY id ASC`, date)
	return meetings, err
}

// MarkCancelled sets the explicit cancelled status, records the attributed
// party when given, and keeps the legacy notes marker in sync for older
// clients. Prefixing is guarded so a second cancel never stacks markers.
func (r *MeetingRepo) MarkCancelled(ctx context.Context, meetingID int, cancelledBy *string) (models.Meeting, error) {
	var m models.Meeting
	err := r.db.QueryRowxContext(ctx, `UPDATE meetings
        SET status='cancelled',
            cancelled_by=$2,
            notes = CASE WHEN notes LIKE '[CANCELLED]%' THEN notes ELSE '[CANCELLED] ' || notes END
        WHERE id=$1
        RETURNING `+meetingColumns, meetingID, cancelledBy).
		StructScan(&m)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meeting{}, ErrMeetingNotFound
	}
	return m, err
}

// DeleteMeeting permanently removes a meeting record.
func (r *MeetingRepo) DeleteMeeting(ctx context.Context, meetingID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id=$1`, meetingID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMeetingNotFound
	}
	return nil
}
