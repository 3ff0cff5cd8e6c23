package state

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"waitlist/internal/domain/entity"
	"waitlist/internal/domain/service"

	"github.com/pkg/errors"
)

// tokenBytes gives 256 bits of entropy per authorization token.
const tokenBytes = 32

// Broker issues one-time state tokens and resolves them through a
// priority-ordered chain of stores: session-backed first, then the
// token-keyed fallback. Every resolve consumes the token from all stores,
// so a replayed callback never matches twice.
type Broker struct {
	stores []service.StateStore
	logger *slog.Logger
	now    func() time.Time
}

// NewBroker composes the stores in lookup-priority order.
func NewBroker(session *SessionStore, fallback *FallbackStore, logger *slog.Logger) service.StateBroker {
	return &Broker{
		stores: []service.StateStore{session, fallback},
		logger: logger,
		now:    time.Now,
	}
}

// Begin generates a token and stores the (token, submission) pairing in
// every backing store.
func (b *Broker) Begin(ctx context.Context, sessionID string, submission *entity.Submission) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", errors.Wrap(err, "generate state token")
	}

	st := &entity.AuthorizationState{
		Token:      token,
		Submission: submission,
		CreatedAt:  b.now(),
	}

	for _, store := range b.stores {
		if err := store.Save(ctx, sessionID, st); err != nil {
			return "", errors.Wrap(err, "save authorization state")
		}
	}

	b.logger.Debug("Issued authorization state",
		slog.String("token_prefix", token[:8]),
		slog.Bool("has_session", sessionID != ""))

	return token, nil
}

// Resolve consumes the token from every store and returns the submission
// from the highest-priority store that held a live copy.
func (b *Broker) Resolve(ctx context.Context, sessionID, token string) (*entity.Submission, bool) {
	if token == "" {
		return nil, false
	}

	var resolved *entity.AuthorizationState
	via := -1
	for i, store := range b.stores {
		st, ok := store.Take(ctx, sessionID, token)
		if ok && resolved == nil {
			resolved = st
			via = i
		}
	}

	if resolved == nil {
		return nil, false
	}

	b.logger.Debug("Resolved authorization state",
		slog.String("token_prefix", token[:min(8, len(token))]),
		slog.Bool("via_session", via == 0))

	return resolved.Submission, true
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.WithStack(err)
	}

	return hex.EncodeToString(buf), nil
}
