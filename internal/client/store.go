package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultAlertTimeout controls how long an alert stays visible unless it is
// dismissed first.
const DefaultAlertTimeout = 5 * time.Second

// Store holds the client state and fans dispatched actions out to the
// reducers. All access is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
	alertTimers map[string]*time.Timer
}

// NewStore returns a store in the initial state.
func NewStore() *Store {
	return &Store{
		state:       NewState(),
		subscribers: make(map[int]func(State)),
		alertTimers: make(map[string]*time.Timer),
	}
}

// GetState returns a snapshot of the current state tree.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action through every reducer and notifies subscribers
// with the resulting state.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()

	if action.Type == RemoveAlertAction {
		if id, ok := action.Payload.(string); ok {
			s.stopAlertTimerLocked(id)
		}
	}

	s.state.Auth = reduceAuth(s.state.Auth, action)
	s.state.Profile = reduceProfile(s.state.Profile, action)
	s.state.Post = reducePost(s.state.Post, action)
	s.state.Alerts = reduceAlerts(s.state.Alerts, action)

	state := s.state
	subscribers := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

// Subscribe registers fn to run after every dispatch. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// SetAlert shows an alert that auto-expires after timeout. Dismissing the
// alert earlier, via a RemoveAlertAction dispatch, stops the pending timer
// so the scheduled removal never fires against a reused id.
func (s *Store) SetAlert(msg, alertType string, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = DefaultAlertTimeout
	}
	id := uuid.NewString()

	s.Dispatch(Action{Type: SetAlertAction, Payload: Alert{
		ID:        id,
		Msg:       msg,
		AlertType: alertType,
	}})

	timer := time.AfterFunc(timeout, func() {
		s.Dispatch(Action{Type: RemoveAlertAction, Payload: id})
	})

	s.mu.Lock()
	s.alertTimers[id] = timer
	s.mu.Unlock()

	return id
}

// RemoveAlert dismisses an alert immediately.
func (s *Store) RemoveAlert(id string) {
	s.Dispatch(Action{Type: RemoveAlertAction, Payload: id})
}

func (s *Store) stopAlertTimerLocked(id string) {
	if timer, ok := s.alertTimers[id]; ok {
		timer.Stop()
		delete(s.alertTimers, id)
	}
}
