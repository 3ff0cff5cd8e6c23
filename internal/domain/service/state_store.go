// Package service defines the interfaces for supporting infrastructure
// consumed by the usecase layer.
package service

import (
	"context"

	"waitlist/internal/domain/entity"
)

// StateStore holds pending authorization states across the provider
// redirect. Two implementations back it: one scoped to the browser session
// and one keyed by the token itself, because either channel can go missing
// depending on cookie behavior during the round trip.
type StateStore interface {
	// Save records a copy of the pending state for the given session.
	Save(ctx context.Context, sessionID string, state *entity.AuthorizationState) error

	// Take returns the pending state matching the token and removes it.
	// The second return is false when no live match exists.
	Take(ctx context.Context, sessionID, token string) (*entity.AuthorizationState, bool)
}

// StateBroker issues one-time authorization tokens and recovers the
// submission they were issued for, exactly once per token.
type StateBroker interface {
	// Begin pairs the submission with a fresh token and stores the pair
	// in every backing store. Returns the token for the state parameter.
	Begin(ctx context.Context, sessionID string, submission *entity.Submission) (string, error)

	// Resolve consumes the token and returns the pending submission.
	// A replayed, expired or never-issued token returns false.
	Resolve(ctx context.Context, sessionID, token string) (*entity.Submission, bool)
}
