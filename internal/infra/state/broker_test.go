package state

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"waitlist/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBroker(ttl time.Duration) (*Broker, *SessionStore, *FallbackStore) {
	session := NewSessionStore(ttl)
	fallback := NewFallbackStore(ttl, time.Hour, testLogger())
	broker := NewBroker(session, fallback, testLogger()).(*Broker)

	return broker, session, fallback
}

func testSubmission(email string) *entity.Submission {
	return &entity.Submission{
		Name:      "Test Person",
		Email:     email,
		LinkedIn:  "https://www.linkedin.com/in/test",
		Hierarchy: "Director",
		Function:  "Marketing",
	}
}

func TestBroker_BeginResolve_ExactlyOnce(t *testing.T) {
	broker, _, _ := newTestBroker(10 * time.Minute)
	ctx := context.Background()
	submission := testSubmission("once@example.com")

	token, err := broker.Begin(ctx, "session-1", submission)
	require.NoError(t, err)
	assert.Len(t, token, 64) // 32 random bytes, hex encoded

	resolved, ok := broker.Resolve(ctx, "session-1", token)
	require.True(t, ok)
	assert.Equal(t, submission, resolved)

	// A second resolve with the same token must miss everywhere.
	_, ok = broker.Resolve(ctx, "session-1", token)
	assert.False(t, ok)
}

func TestBroker_Resolve_UnknownToken(t *testing.T) {
	broker, _, _ := newTestBroker(10 * time.Minute)

	_, ok := broker.Resolve(context.Background(), "session-1", "never-issued")
	assert.False(t, ok)

	_, ok = broker.Resolve(context.Background(), "session-1", "")
	assert.False(t, ok)
}

func TestBroker_Resolve_ExpiredToken(t *testing.T) {
	broker, session, fallback := newTestBroker(10 * time.Minute)
	ctx := context.Background()

	now := time.Now()
	session.entries.now = func() time.Time { return now }
	fallback.entries.now = func() time.Time { return now }

	token, err := broker.Begin(ctx, "session-1", testSubmission("late@example.com"))
	require.NoError(t, err)

	// Jump past the TTL before the callback arrives.
	later := now.Add(11 * time.Minute)
	session.entries.now = func() time.Time { return later }
	fallback.entries.now = func() time.Time { return later }

	_, ok := broker.Resolve(ctx, "session-1", token)
	assert.False(t, ok)
}

func TestBroker_Resolve_PrefersSessionCopy(t *testing.T) {
	broker, session, fallback := newTestBroker(10 * time.Minute)
	ctx := context.Background()

	// Both stores hold the token but disagree on the submission; the
	// session copy must win.
	sessionCopy := &entity.AuthorizationState{
		Token:      "token-1",
		Submission: testSubmission("via-session@example.com"),
		CreatedAt:  time.Now(),
	}
	fallbackCopy := &entity.AuthorizationState{
		Token:      "token-1",
		Submission: testSubmission("via-fallback@example.com"),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, session.Save(ctx, "session-1", sessionCopy))
	require.NoError(t, fallback.Save(ctx, "session-1", fallbackCopy))

	resolved, ok := broker.Resolve(ctx, "session-1", "token-1")
	require.True(t, ok)
	assert.Equal(t, "via-session@example.com", resolved.Email)

	// Both copies are consumed by the single resolve.
	_, ok = broker.Resolve(ctx, "session-1", "token-1")
	assert.False(t, ok)
}

func TestBroker_Resolve_FallsBackWhenSessionDisagrees(t *testing.T) {
	broker, session, _ := newTestBroker(10 * time.Minute)
	ctx := context.Background()

	token, err := broker.Begin(ctx, "session-1", testSubmission("session@example.com"))
	require.NoError(t, err)

	// Plant a disagreeing stale entry in the session slot; the presented
	// token no longer matches it, so resolution falls through to the
	// fallback copy.
	stale := &entity.AuthorizationState{
		Token:      "stale-token",
		Submission: testSubmission("stale@example.com"),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, session.Save(ctx, "session-1", stale))

	resolved, ok := broker.Resolve(ctx, "session-1", token)
	require.True(t, ok)
	assert.Equal(t, "session@example.com", resolved.Email)
}

func TestBroker_Resolve_FallbackWhenSessionLost(t *testing.T) {
	broker, _, _ := newTestBroker(10 * time.Minute)
	ctx := context.Background()

	token, err := broker.Begin(ctx, "session-1", testSubmission("lost@example.com"))
	require.NoError(t, err)

	// The callback arrives on a fresh session: the cookie did not
	// survive the provider redirect.
	resolved, ok := broker.Resolve(ctx, "different-session", token)
	require.True(t, ok)
	assert.Equal(t, "lost@example.com", resolved.Email)

	_, ok = broker.Resolve(ctx, "different-session", token)
	assert.False(t, ok)
}

func TestBroker_Begin_DistinctTokens(t *testing.T) {
	broker, _, _ := newTestBroker(10 * time.Minute)
	ctx := context.Background()

	const n = 500

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			token, err := broker.Begin(ctx, "session-1", testSubmission("unique@example.com"))
			assert.NoError(t, err)

			mu.Lock()
			seen[token] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestFallbackStore_SweepRemovesExpired(t *testing.T) {
	fallback := NewFallbackStore(10*time.Minute, time.Hour, testLogger())
	ctx := context.Background()

	now := time.Now()
	fallback.entries.now = func() time.Time { return now }

	old := &entity.AuthorizationState{Token: "old", CreatedAt: now}
	fresh := &entity.AuthorizationState{Token: "fresh", CreatedAt: now}
	require.NoError(t, fallback.Save(ctx, "", old))

	fallback.entries.now = func() time.Time { return now.Add(11 * time.Minute) }
	require.NoError(t, fallback.Save(ctx, "", fresh))

	removed := fallback.entries.sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, fallback.entries.len())

	_, ok := fallback.Take(ctx, "", "fresh")
	assert.True(t, ok)
}
