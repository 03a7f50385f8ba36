package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/mocks"
	"friendo-service/internal/models"
)

func fixedTime(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 6, 15, hour, 30, 0, 0, time.Local)
	}
}

func strPtr(s string) *string { return &s }

func schedulerFixture(friendRepo *mocks.FriendRepositoryMock, meetingRepo *mocks.MeetingRepositoryMock, settingsRepo *mocks.SettingsRepositoryMock, pub *mocks.PublisherMock, hour int) *Scheduler {
	s := NewScheduler(friendRepo, meetingRepo, settingsRepo, pub, 9, time.Minute)
	s.now = fixedTime(hour)
	return s
}

func TestTickBeforeHourDoesNothing(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	meetingRepo := new(mocks.MeetingRepositoryMock)
	pub := new(mocks.PublisherMock)
	s := schedulerFixture(friendRepo, meetingRepo, new(mocks.SettingsRepositoryMock), pub, 8)

	s.Tick(context.Background())

	friendRepo.AssertNotCalled(t, "ListFriendsWithBirthday", mock.Anything, mock.Anything)
	meetingRepo.AssertNotCalled(t, "ListMeetingsOnDate", mock.Anything, mock.Anything)
}

func TestTickPublishesBirthdayAndMeetingReminders(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	meetingRepo := new(mocks.MeetingRepositoryMock)
	settingsRepo := new(mocks.SettingsRepositoryMock)
	pub := new(mocks.PublisherMock)
	s := schedulerFixture(friendRepo, meetingRepo, settingsRepo, pub, 10)

	friendRepo.On("ListFriendsWithBirthday", mock.Anything, "06-15").
		Return([]models.Friend{{ID: 2, UserID: 1, Name: "Ana", Birthday: strPtr("1990-06-15")}}, nil).Once()
	settingsRepo.On("GetSettings", mock.Anything, 1).
		Return(models.Settings{UserID: 1, BirthdayReminders: true, ReminderHour: 18}, nil).Once()
	meetingRepo.On("ListMeetingsOnDate", mock.Anything, "2026-06-15").
		Return([]models.Meeting{{ID: 5, UserID: 1, FriendID: 2, Date: "2026-06-15", Activity: "lunch"}}, nil).Once()

	pub.On("Publish", mock.Anything, RoutingKeyBirthday, mock.MatchedBy(func(r Reminder) bool {
		return r.Kind == "birthday" && r.FriendID == 2 && r.DeliverHour == 18
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, RoutingKeyMeeting, mock.MatchedBy(func(r Reminder) bool {
		return r.Kind == "meeting" && r.MeetingID == 5
	})).Return(nil).Once()

	s.Tick(context.Background())

	pub.AssertExpectations(t)
	friendRepo.AssertExpectations(t)
	meetingRepo.AssertExpectations(t)
}

func TestTickFiresOncePerDay(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	meetingRepo := new(mocks.MeetingRepositoryMock)
	pub := new(mocks.PublisherMock)
	s := schedulerFixture(friendRepo, meetingRepo, new(mocks.SettingsRepositoryMock), pub, 10)

	friendRepo.On("ListFriendsWithBirthday", mock.Anything, mock.Anything).Return([]models.Friend{}, nil)
	meetingRepo.On("ListMeetingsOnDate", mock.Anything, mock.Anything).Return([]models.Meeting{}, nil)

	s.Tick(context.Background())
	s.Tick(context.Background())

	friendRepo.AssertNumberOfCalls(t, "ListFriendsWithBirthday", 1)
	meetingRepo.AssertNumberOfCalls(t, "ListMeetingsOnDate", 1)
}

func TestBirthdayReminderRespectsOptOut(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	meetingRepo := new(mocks.MeetingRepositoryMock)
	settingsRepo := new(mocks.SettingsRepositoryMock)
	pub := new(mocks.PublisherMock)
	s := schedulerFixture(friendRepo, meetingRepo, settingsRepo, pub, 10)

	friendRepo.On("ListFriendsWithBirthday", mock.Anything, "06-15").
		Return([]models.Friend{{ID: 2, UserID: 1, Name: "Ana"}}, nil).Once()
	settingsRepo.On("GetSettings", mock.Anything, 1).
		Return(models.Settings{UserID: 1, BirthdayReminders: false}, nil).Once()
	meetingRepo.On("ListMeetingsOnDate", mock.Anything, mock.Anything).Return([]models.Meeting{}, nil)

	s.Tick(context.Background())

	pub.AssertNotCalled(t, "Publish", mock.Anything, RoutingKeyBirthday, mock.Anything)
	require.Equal(t, "2026-06-15", s.firedDay)
}
