// Package state implements the authorization-state stores that carry a
// pending submission across the provider redirect.
package state

import (
	"sync"
	"time"

	"waitlist/internal/domain/entity"
)

type ttlEntry struct {
	state    *entity.AuthorizationState
	storedAt time.Time
}

// ttlMap is a mutex-guarded map with insertion-time expiry. Expected
// volume is low, so no sharding or lock-free structure is warranted.
type ttlMap struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]ttlEntry
}

func newTTLMap(ttl time.Duration) *ttlMap {
	return &ttlMap{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]ttlEntry),
	}
}

func (m *ttlMap) put(key string, st *entity.AuthorizationState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = ttlEntry{state: st, storedAt: m.now()}
}

// take removes and returns the live entry under key. Expired entries are
// removed and reported as absent.
func (m *ttlMap) take(key string) (*entity.AuthorizationState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	delete(m.entries, key)

	if m.now().Sub(entry.storedAt) > m.ttl {
		return nil, false
	}

	return entry.state, true
}

// sweep drops entries older than the TTL and returns how many it removed.
func (m *ttlMap) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if now.Sub(entry.storedAt) > m.ttl {
			delete(m.entries, key)
			removed++
		}
	}

	return removed
}

func (m *ttlMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
