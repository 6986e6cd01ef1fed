package bot

import (
	"sync"
	"time"
)

// Conversation steps tracked between messages.
const (
	StateAwaitingTwitter      = "awaiting_twitter"
	StateAwaitingWallet       = "awaiting_wallet"
	StateAwaitingWalletUpdate = "awaiting_wallet_update"
)

type sessionEntry struct {
	state   string
	expires time.Time
}

// SessionStore keeps per-user conversation state with an expiry, so a
// stale half-finished flow cannot linger forever.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[int64]sessionEntry),
	}
}

func (s *SessionStore) Set(tgID int64, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tgID] = sessionEntry{state: state, expires: time.Now().Add(s.ttl)}
}

func (s *SessionStore) Get(tgID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[tgID]
	if !ok {
		return ""
	}
	if time.Now().After(entry.expires) {
		delete(s.sessions, tgID)
		return ""
	}
	return entry.state
}

func (s *SessionStore) Clear(tgID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tgID)
}
