package press

import (
	"sync"
	"time"
)

// HoldThreshold is how long a press must be sustained before it counts as a
// hold. Reduced from an earlier 3 second threshold.
const HoldThreshold = time.Second

// State of the press flow.
type State int

const (
	Idle State = iota
	Pressing
	Confirming
)

func (s State) String() string {
	switch s {
	case Pressing:
		return "pressing"
	case Confirming:
		return "confirming"
	default:
		return "idle"
	}
}

// Tracker turns press-start/press-end events into a single hold callback.
// Each connection owns one Tracker; calls are serialized through a mutex so
// the timer can never fire after the press was released.
type Tracker struct {
	mu        sync.Mutex
	threshold time.Duration
	onHold    func(meetingID int)

	state     State
	meetingID int
	timer     *time.Timer
	gen       uint64
}

// NewTracker builds a Tracker firing onHold after HoldThreshold.
func NewTracker(onHold func(meetingID int)) *Tracker {
	return NewTrackerWithThreshold(HoldThreshold, onHold)
}

// NewTrackerWithThreshold is NewTracker with a custom threshold.
func NewTrackerWithThreshold(threshold time.Duration, onHold func(meetingID int)) *Tracker {
	return &Tracker{threshold: threshold, onHold: onHold}
}

// Begin arms the hold timer for a meeting. A press that starts while the
// tracker is not idle is ignored; the first press wins.
func (t *Tracker) Begin(meetingID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return false
	}
	t.state = Pressing
	t.meetingID = meetingID
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.threshold, func() { t.fire(meetingID, gen) })
	return true
}

// End cancels a pending press. Releasing after the hold already fired keeps
// the tracker in Confirming; the flow then ends via Resolve.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Pressing {
		return
	}
	t.timer.Stop()
	t.timer = nil
	t.state = Idle
	t.meetingID = 0
}

// Resolve finishes a confirming flow, whatever the user chose.
func (t *Tracker) Resolve() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Confirming {
		return
	}
	t.state = Idle
	t.meetingID = 0
}

// Cancel force-resets the tracker, stopping any pending timer. Used on
// disconnect so a stale hold can never mutate anything.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.state = Idle
	t.meetingID = 0
}

// State reports the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Confirming reports whether a hold fired for the given meeting and the
// flow is waiting on the user's choice.
func (t *Tracker) ConfirmingMeeting() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Confirming {
		return 0, false
	}
	return t.meetingID, true
}

func (t *Tracker) fire(meetingID int, gen uint64) {
	t.mu.Lock()
	// End or Cancel may have won the race with the timer goroutine. The
	// generation check also stops an expired timer from promoting a newer
	// press on the same meeting before its own threshold.
	if t.state != Pressing || t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.state = Confirming
	t.timer = nil
	t.mu.Unlock()

	if t.onHold != nil {
		t.onHold(meetingID)
	}
}
