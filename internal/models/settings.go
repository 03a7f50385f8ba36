package models

// Settings holds per-user preferences.
type Settings struct {
	UserID            int    `db:"user_id" json:"user_id"`
	BirthdayReminders bool   `db:"birthday_reminders" json:"birthday_reminders"`
	ReminderHour      int    `db:"reminder_hour" json:"reminder_hour"`
	Theme             string `db:"theme" json:"theme"`
}
