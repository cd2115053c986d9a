package telegram

import "sync"

// State tags the position of a conversation inside one of the flows.
type State int

const (
	// StateIdle is the resting state; commands and menu buttons are accepted.
	StateIdle State = iota
	// StateAwaitingDocument waits for an admin's workbook upload.
	StateAwaitingDocument
	// StateSelectingBroadcastGroup waits for the admin to pick a target group.
	StateSelectingBroadcastGroup
	// StateComposingBroadcast waits for the admin's announcement text.
	StateComposingBroadcast
	// StateAwaitingEmail waits for the student's address.
	StateAwaitingEmail
	// StateAwaitingCode waits for the emailed verification code.
	StateAwaitingCode
)

// Session is one user's conversation state plus flow-scoped payload. Group
// holds the broadcast target; Email holds the pending registration address.
type Session struct {
	State State
	Group string
	Email string
}

// SessionStore keeps per-user sessions. An absent entry is an idle session.
type SessionStore struct {
	mu     sync.Mutex
	byUser map[int64]Session
}

// NewSessionStore constructs an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{byUser: make(map[int64]Session)}
}

// Get returns the user's session, idle when none exists.
func (s *SessionStore) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byUser[userID]
}

// Put stores the user's session.
func (s *SessionStore) Put(userID int64, session Session) {
	s.mu.Lock()
	s.byUser[userID] = session
	s.mu.Unlock()
}

// Reset returns the user to idle and drops the flow payload.
func (s *SessionStore) Reset(userID int64) {
	s.mu.Lock()
	delete(s.byUser, userID)
	s.mu.Unlock()
}
