package meetings

import (
	"context"
	"errors"
	"time"

	"friendo-service/internal/models"
	"friendo-service/internal/repositories"
	"friendo-service/internal/status"
)

var (
	ErrNotOwner         = errors.New("meeting does not belong to user")
	ErrAlreadyCancelled = errors.New("meeting already cancelled")
	ErrNotCancelled     = errors.New("meeting is not cancelled")
	ErrBadAttribution   = errors.New("invalid attribution")
	ErrPremiumRequired  = errors.New("attribution requires premium")
)

// Prompts the long-press flow can ask the client to show.
const (
	PromptConfirmCancel     = "confirm_cancel"
	PromptChooseAttribution = "choose_attribution"
	PromptConfirmErase      = "confirm_erase"
)

// EntitlementChecker answers premium lookups.
type EntitlementChecker interface {
	IsPremiumUser(ctx context.Context, userID int) (bool, error)
}

// Broadcaster pushes token changes to a user's live connections.
type Broadcaster interface {
	BroadcastTokenEvent(userID int, event models.TokenEvent)
}

// Service owns the meeting lifecycle: scheduling, the time-based
// scheduled-to-met transition (implicit, via derivation), explicit
// cancellation with optional premium attribution, and erasure of cancelled
// meetings. Every mutation re-reads the friend's full meeting list before
// answering; nothing is patched optimistically.
type Service struct {
	meetingRepo  repositories.MeetingRepository
	friendRepo   repositories.FriendRepository
	entitlements EntitlementChecker
	broadcaster  Broadcaster
}

// NewService constructs a Service. broadcaster may be nil.
func NewService(meetingRepo repositories.MeetingRepository, friendRepo repositories.FriendRepository, entitlements EntitlementChecker, broadcaster Broadcaster) *Service {
	return &Service{
		meetingRepo:  meetingRepo,
		friendRepo:   friendRepo,
		entitlements: entitlements,
		broadcaster:  broadcaster,
	}
}

// Schedule creates a meeting with a friend owned by the user.
func (s *Service) Schedule(ctx context.Context, userID int, m models.Meeting) (models.Meeting, error) {
	friend, err := s.friendRepo.GetFriend(ctx, m.FriendID)
	if err != nil {
		return models.Meeting{}, err
	}
	if friend.UserID != userID {
		return models.Meeting{}, ErrNotOwner
	}

	m.UserID = userID
	created, err := s.meetingRepo.CreateMeeting(ctx, m)
	if err != nil {
		return models.Meeting{}, err
	}

	s.broadcast(userID, models.TokenEvent{
		Type:      "meeting_scheduled",
		FriendID:  created.FriendID,
		MeetingID: created.ID,
		Token:     status.TokenFor(created, status.Derive(created, time.Now())),
	})
	return created, nil
}

// TokenRow renders a friend's token row as of now.
func (s *Service) TokenRow(ctx context.Context, userID, friendID int, showAll bool) (status.TokenRow, error) {
	friend, err := s.friendRepo.GetFriend(ctx, friendID)
	if err != nil {
		return status.TokenRow{}, err
	}
	if friend.UserID != userID {
		return status.TokenRow{}, ErrNotOwner
	}

	meetings, err := s.meetingRepo.ListMeetingsForFriend(ctx, friendID)
	if err != nil {
		return status.TokenRow{}, err
	}
	return status.BuildTokenRow(meetings, time.Now(), showAll), nil
}

// Get returns a meeting owned by the user together with its derived state.
func (s *Service) Get(ctx context.Context, userID, meetingID int) (models.Meeting, status.Derived, error) {
	m, err := s.meetingRepo.GetMeeting(ctx, meetingID)
	if err != nil {
		return models.Meeting{}, status.Derived{}, err
	}
	if m.UserID != userID {
		return models.Meeting{}, status.Derived{}, ErrNotOwner
	}
	return m, status.Derive(m, time.Now()), nil
}

// HoldPrompt decides which confirmation the long-press flow should show for
// a meeting: erase for already-cancelled meetings, the attribution choice
// for premium users, a plain confirmation otherwise. The entitlement read
// goes through the short-TTL cache; a stale free answer right after a
// purchase is accepted.
func (s *Service) HoldPrompt(ctx context.Context, userID, meetingID int) (string, error) {
	_, derived, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return "", err
	}
	if derived.Status == models.StatusCancelled {
		return PromptConfirmErase, nil
	}

	premium, err := s.entitlements.IsPremiumUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if premium {
		return PromptChooseAttribution, nil
	}
	return PromptConfirmCancel, nil
}

// Cancel marks a meeting cancelled. attributedTo carries the premium
// attribution ("user" or "friend") and must be nil for free-tier cancels.
// Already-cancelled meetings never revert and cannot be re-cancelled.
func (s *Service) Cancel(ctx context.Context, userID, meetingID int, attributedTo *string) (models.Meeting, status.TokenRow, error) {
	m, derived, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return models.Meeting{}, status.TokenRow{}, err
	}
	if derived.Status == models.StatusCancelled {
		return models.Meeting{}, status.TokenRow{}, ErrAlreadyCancelled
	}

	if attributedTo != nil {
		if *attributedTo != models.CancelledByUser && *attributedTo != models.CancelledByFriend {
			return models.Meeting{}, status.TokenRow{}, ErrBadAttribution
		}
		premium, err := s.entitlements.IsPremiumUser(ctx, userID)
		if err != nil {
			return models.Meeting{}, status.TokenRow{}, err
		}
		if !premium {
			return models.Meeting{}, status.TokenRow{}, ErrPremiumRequired
		}
	}

	cancelled, err := s.meetingRepo.MarkCancelled(ctx, meetingID, attributedTo)
	if err != nil {
		return models.Meeting{}, status.TokenRow{}, err
	}

	row, err := s.refreshRow(ctx, m.FriendID)
	if err != nil {
		return models.Meeting{}, status.TokenRow{}, err
	}

	s.broadcast(userID, models.TokenEvent{
		Type:      "meeting_cancelled",
		FriendID:  cancelled.FriendID,
		MeetingID: cancelled.ID,
		Token:     status.TokenFor(cancelled, status.Derive(cancelled, time.Now())),
	})
	return cancelled, row, nil
}

// Erase permanently deletes a cancelled meeting. Meetings that are not
// cancelled cannot be erased; they first go through Cancel.
func (s *Service) Erase(ctx context.Context, userID, meetingID int) (status.TokenRow, error) {
	m, derived, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return status.TokenRow{}, err
	}
	if derived.Status != models.StatusCancelled {
		return status.TokenRow{}, ErrNotCancelled
	}

	if err := s.meetingRepo.DeleteMeeting(ctx, meetingID); err != nil {
		return status.TokenRow{}, err
	}

	row, err := s.refreshRow(ctx, m.FriendID)
	if err != nil {
		return status.TokenRow{}, err
	}

	s.broadcast(userID, models.TokenEvent{
		Type:      "meeting_erased",
		FriendID:  m.FriendID,
		MeetingID: meetingID,
	})
	return row, nil
}

func (s *Service) refreshRow(ctx context.Context, friendID int) (status.TokenRow, error) {
	meetings, err := s.meetingRepo.ListMeetingsForFriend(ctx, friendID)
	if err != nil {
		return status.TokenRow{}, err
	}
	return status.BuildTokenRow(meetings, time.Now(), false), nil
}

func (s *Service) broadcast(userID int, event models.TokenEvent) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTokenEvent(userID, event)
	}
}
