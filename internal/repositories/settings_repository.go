package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

// SettingsRepository abstracts per-user preference persistence.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int) (models.Settings, error)
	UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error)
}

// SettingsRepo is a sqlx implementation of SettingsRepository.
type SettingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo constructs a SettingsRepo.
func NewSettingsRepo(db *sqlx.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetSettings returns the user's settings, falling back to defaults when no
// row exists yet.
func (r *SettingsRepo) GetSettings(ctx context.Context, userID int) (models.Settings, error) {
	var s models.Settings
	err := r.db.GetContext(ctx, &s, `SELECT user_id, birthday_reminders, reminder_hour, theme FROM settings WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{UserID: userID, BirthdayReminders: true, ReminderHour: 9, Theme: "system"}, nil
	}
	return s, err
}

// UpdateSettings writes the user's settings row.
func (r *SettingsRepo) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	var stored models.Settings
	err := r.db.QueryRowxContext(ctx, `INSERT INTO settings (user_id, birthday_reminders, reminder_hour, theme)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET birthday_reminders=EXCLUDED.birthday_reminders, reminder_hour=EXCLUDED.reminder_hour, theme=EXCLUDED.theme
        RETURNING user_id, birthday_reminders, reminder_hour, theme`,
		s.UserID, s.BirthdayReminders, s.ReminderHour, s.Theme).
		StructScan(&stored)
	return stored, err
}
