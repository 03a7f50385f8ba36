package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
)

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) CreateFriend(ctx context.Context, f models.Friend) (models.Friend, error) {
	args := m.Called(ctx, f)
	var friend models.Friend
	if val := args.Get(0); val != nil {
		friend = val.(models.Friend)
	}
	return friend, args.Error(1)
}

func (m *FriendRepositoryMock) GetFriend(ctx context.Context, friendID int) (models.Friend, error) {
	args := m.Called(ctx, friendID)
	var friend models.Friend
	if val := args.Get(0); val != nil {
		friend = val.(models.Friend)
	}
	return friend, args.Error(1)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	var friends []models.Friend
	if val := args.Get(0); val != nil {
		friends = val.([]models.Friend)
	}
	return friends, args.Error(1)
}

func (m *FriendRepositoryMock) UpdateFriend(ctx context.Context, f models.Friend) (models.Friend, error) {
	args := m.Called(ctx, f)
	var friend models.Friend
	if val := args.Get(0); val != nil {
		friend = val.(models.Friend)
	}
	return friend, args.Error(1)
}

func (m *FriendRepositoryMock) DeleteFriend(ctx context.Context, friendID int) error {
	args := m.Called(ctx, friendID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListFriendsWithBirthday(ctx context.Context, monthDay string) ([]models.Friend, error) {
	args := m.Called(ctx, monthDay)
	var friends []models.Friend
	if val := args.Get(0); val != nil {
		friends = val.([]models.Friend)
	}
	return friends, args.Error(1)
}

type MeetingRepositoryMock struct {
	mock.Mock
}

func (m *MeetingRepositoryMock) CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error) {
	args := m.Called(ctx, meeting)
	var created models.Meeting
	if val := args.Get(0); val != nil {
		created = val.(models.Meeting)
	}
	return created, args.Error(1)
}

func (m *MeetingRepositoryMock) GetMeeting(ctx context.Context, meetingID int) (models.Meeting, error) {
	args := m.Called(ctx, meetingID)
	var meeting models.Meeting
	if val := args.Get(0); val != nil {
		meeting = val.(models.Meeting)
	}
	return meeting, args.Error(1)
}

func (m *MeetingRepositoryMock) ListMeetingsForFriend(ctx context.Context, friendID int) ([]models.Meeting, error) {
	args := m.Called(ctx, friendID)
	var meetings []models.Meeting
	if val := args.Get(0); val != nil {
		meetings = val.([]models.Meeting)
	}
	return meetings, args.Error(1)
}

func (m *MeetingRepositoryMock) ListMeetingsOnDate(ctx context.Context, date string) ([]models.Meeting, error) {
	args := m.Called(ctx, date)
	var meetings []models.Meeting
	if val := args.Get(0); val != nil {
		meetings = val.([]models.Meeting)
	}
	return meetings, args.Error(1)
}

func (m *MeetingRepositoryMock) MarkCancelled(ctx context.Context, meetingID int, cancelledBy *string) (models.Meeting, error) {
	args := m.Called(ctx, meetingID, cancelledBy)
	var meeting models.Meeting
	if val := args.Get(0); val != nil {
		meeting = val.(models.Meeting)
	}
	return meeting, args.Error(1)
}

func (m *MeetingRepositoryMock) DeleteMeeting(ctx context.Context, meetingID int) error {
	args := m.Called(ctx, meetingID)
	return args.Error(0)
}

type VenueRepositoryMock struct {
	mock.Mock
}

func (m *VenueRepositoryMock) ListActiveVenues(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	var venues []models.Venue
	if val := args.Get(0); val != nil {
		venues = val.([]models.Venue)
	}
	return venues, args.Error(1)
}

func (m *VenueRepositoryMock) ListAllVenues(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	var venues []models.Venue
	if val := args.Get(0); val != nil {
		venues = val.([]models.Venue)
	}
	return venues, args.Error(1)
}

func (m *VenueRepositoryMock) GetVenue(ctx context.Context, venueID int) (models.Venue, error) {
	args := m.Called(ctx, venueID)
	var venue models.Venue
	if val := args.Get(0); val != nil {
		venue = val.(models.Venue)
	}
	return venue, args.Error(1)
}

func (m *VenueRepositoryMock) CreateVenue(ctx context.Context, v models.Venue) (models.Venue, error) {
	args := m.Called(ctx, v)
	var venue models.Venue
	if val := args.Get(0); val != nil {
		venue = val.(models.Venue)
	}
	return venue, args.Error(1)
}

func (m *VenueRepositoryMock) UpdateVenue(ctx context.Context, v models.Venue) (models.Venue, error) {
	args := m.Called(ctx, v)
	var venue models.Venue
	if val := args.Get(0); val != nil {
		venue = val.(models.Venue)
	}
	return venue, args.Error(1)
}

func (m *VenueRepositoryMock) DeleteVenue(ctx context.Context, venueID int) error {
	args := m.Called(ctx, venueID)
	return args.Error(0)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, username, passwordHash string) (models.User, error) {
	args := m.Called(ctx, email, username, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) CreateSession(ctx context.Context, token string, userID int, expiresAt time.Time) error {
	args := m.Called(ctx, token, userID, expiresAt)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetSession(ctx context.Context, token string) (models.Session, error) {
	args := m.Called(ctx, token)
	var session models.Session
	if val := args.Get(0); val != nil {
		session = val.(models.Session)
	}
	return session, args.Error(1)
}

func (m *UserRepositoryMock) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type SubscriptionRepositoryMock struct {
	mock.Mock
}

func (m *SubscriptionRepositoryMock) GetSubscription(ctx context.Context, userID int) (models.Subscription, error) {
	args := m.Called(ctx, userID)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

func (m *SubscriptionRepositoryMock) UpsertSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	args := m.Called(ctx, s)
	var sub models.Subscription
	if val := args.Get(0); val != nil {
		sub = val.(models.Subscription)
	}
	return sub, args.Error(1)
}

type SettingsRepositoryMock struct {
	mock.Mock
}

func (m *SettingsRepositoryMock) GetSettings(ctx context.Context, userID int) (models.Settings, error) {
	args := m.Called(ctx, userID)
	var settings models.Settings
	if val := args.Get(0); val != nil {
		settings = val.(models.Settings)
	}
	return settings, args.Error(1)
}

func (m *SettingsRepositoryMock) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	args := m.Called(ctx, s)
	var settings models.Settings
	if val := args.Get(0); val != nil {
		settings = val.(models.Settings)
	}
	return settings, args.Error(1)
}

type EntitlementCheckerMock struct {
	mock.Mock
}

func (m *EntitlementCheckerMock) IsPremiumUser(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.MeetingRepository = (*MeetingRepositoryMock)(nil)
var _ repositories.VenueRepository = (*VenueRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.SubscriptionRepository = (*SubscriptionRepositoryMock)(nil)
var _ repositories.SettingsRepository = (*SettingsRepositoryMock)(nil)
