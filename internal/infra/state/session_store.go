package state

import (
	"context"
	"time"

	"waitlist/internal/domain/entity"
)

// SessionStore keeps pending authorization states keyed by the browser
// session id. It is the preferred channel: a match here proves the
// callback arrived on the same session that started the flow.
type SessionStore struct {
	entries *ttlMap
}

// NewSessionStore creates the session-scoped store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{entries: newTTLMap(ttl)}
}

// Save records the pending state under the session id.
func (s *SessionStore) Save(_ context.Context, sessionID string, st *entity.AuthorizationState) error {
	if sessionID == "" {
		return nil
	}
	s.entries.put(sessionID, st)

	return nil
}

// Take consumes the session's pending state, but only when the presented
// token matches the one issued to that session. A mismatch leaves nothing
// behind: the session copy is cleared either way, single use.
func (s *SessionStore) Take(_ context.Context, sessionID, token string) (*entity.AuthorizationState, bool) {
	if sessionID == "" {
		return nil, false
	}

	st, ok := s.entries.take(sessionID)
	if !ok || st.Token != token {
		return nil, false
	}

	return st, true
}
