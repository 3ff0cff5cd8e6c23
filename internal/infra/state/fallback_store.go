package state

import (
	"context"
	"log/slog"
	"time"

	"waitlist/internal/domain/entity"
)

// FallbackStore keeps pending authorization states keyed by the token
// itself, so a callback that arrives without the original session cookie
// can still be matched. Entries expire after the configured TTL and a
// background sweep bounds memory growth from abandoned flows.
type FallbackStore struct {
	entries       *ttlMap
	sweepInterval time.Duration
	logger        *slog.Logger
	done          chan struct{}
}

// NewFallbackStore creates the process-wide fallback store. Start must be
// called to launch the sweeper, Stop to shut it down.
func NewFallbackStore(ttl, sweepInterval time.Duration, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{
		entries:       newTTLMap(ttl),
		sweepInterval: sweepInterval,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Save stores the state under its own token. The session id plays no role
// on this channel.
func (s *FallbackStore) Save(_ context.Context, _ string, st *entity.AuthorizationState) error {
	s.entries.put(st.Token, st)

	return nil
}

// Take consumes the state matching the token, if it exists and is live.
func (s *FallbackStore) Take(_ context.Context, _ string, token string) (*entity.AuthorizationState, bool) {
	return s.entries.take(token)
}

// Start launches the periodic expiry sweep.
func (s *FallbackStore) Start() {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := s.entries.sweep(); removed > 0 {
					s.logger.Debug("Swept expired authorization states",
						slog.Int("removed", removed),
						slog.Int("remaining", s.entries.len()))
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine.
func (s *FallbackStore) Stop() {
	close(s.done)
}
