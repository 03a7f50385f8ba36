package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"friendo-service/internal/models"
	"friendo-service/internal/observability"
	"friendo-service/internal/rabbitmq"
	"friendo-service/internal/repositories"
)

// Routing keys for reminder events on the audit exchange.
const (
	RoutingKeyBirthday = "reminders.birthday"
	RoutingKeyMeeting  = "reminders.meeting"
)

// Reminder is the payload delivered to the notification pipeline.
// DeliverHour is the user's preferred local hour; the notification
// consumer holds the message until that hour before sending.
type Reminder struct {
	Kind        string `json:"kind"`
	UserID      int    `json:"user_id"`
	FriendID    int    `json:"friend_id"`
	MeetingID   int    `json:"meeting_id,omitempty"`
	Date        string `json:"date"`
	DeliverHour int    `json:"deliver_hour,omitempty"`
	Text        string `json:"text"`
}

// Scheduler sweeps once a day at the configured hour and publishes
// birthday and same-day meeting reminders. It keeps no state beyond the
// last swept day; restarting mid-day re-publishes that day's reminders,
// which the notification consumer deduplicates.
type Scheduler struct {
	friendRepo   repositories.FriendRepository
	meetingRepo  repositories.MeetingRepository
	settingsRepo repositories.SettingsRepository
	publisher    rabbitmq.Publisher

	hour     int
	interval time.Duration
	firedDay string
	now      func() time.Time
}

// NewScheduler builds a Scheduler sweeping at the given local hour.
func NewScheduler(friendRepo repositories.FriendRepository, meetingRepo repositories.MeetingRepository, settingsRepo repositories.SettingsRepository, publisher rabbitmq.Publisher, hour int, interval time.Duration) *Scheduler {
	return &Scheduler{
		friendRepo:   friendRepo,
		meetingRepo:  meetingRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
		hour:         hour,
		interval:     interval,
		now:          time.Now,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs the sweep if the configured hour has been reached and today's
// sweep has not fired yet.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()
	day := now.Format("2006-01-02")
	if now.Hour() < s.hour || s.firedDay == day {
		return
	}
	s.firedDay = day

	if err := s.sweepBirthdays(ctx, now); err != nil {
		log.Printf("birthday sweep: %v", err)
	}
	if err := s.sweepMeetings(ctx, day); err != nil {
		log.Printf("meeting sweep: %v", err)
	}
}

func (s *Scheduler) sweepBirthdays(ctx context.Context, now time.Time) error {
	friends, err := s.friendRepo.ListFriendsWithBirthday(ctx, now.Format("01-02"))
	if err != nil {
		return err
	}

	for _, f := range friends {
		settings, err := s.settingsRepo.GetSettings(ctx, f.UserID)
		if err != nil {
			log.Printf("settings for user %d: %v", f.UserID, err)
			continue
		}
		if !settings.BirthdayReminders {
			continue
		}

		s.publish(ctx, RoutingKeyBirthday, Reminder{
			Kind:        "birthday",
			UserID:      f.UserID,
			FriendID:    f.ID,
			Date:        now.Format("2006-01-02"),
			DeliverHour: settings.ReminderHour,
			Text:        fmt.Sprintf("It's %s's birthday today", f.Name),
		}, "birthday")
	}
	return nil
}

func (s *Scheduler) sweepMeetings(ctx context.Context, day string) error {
	meetings, err := s.meetingRepo.ListMeetingsOnDate(ctx, day)
	if err != nil {
		return err
	}

	for _, m := range meetings {
		s.publish(ctx, RoutingKeyMeeting, Reminder{
			Kind:      "meeting",
			UserID:    m.UserID,
			FriendID:  m.FriendID,
			MeetingID: m.ID,
			Date:      m.Date,
			Text:      meetingText(m),
		}, "meeting")
	}
	return nil
}

func (s *Scheduler) publish(ctx context.Context, routingKey string, r Reminder, kind string) {
	if err := s.publisher.Publish(ctx, routingKey, r); err != nil {
		log.Printf("publish %s reminder: %v", kind, err)
		return
	}
	observability.IncReminderPublished(kind)
}

func meetingText(m models.Meeting) string {
	if m.Activity != "" {
		return fmt.Sprintf("You have %q planned today", m.Activity)
	}
	return "You have a meeting planned today"
}
