package usecase

import (
	"context"

	"waitlist/internal/domain/entity"
)

// CallbackInput carries the provider redirect's query parameters. The
// three fields are mutually exclusive per the provider contract.
type CallbackInput struct {
	Code          string
	State         string
	ProviderError string
}

// Outcome is the terminal result of the amplification flow, rendered by
// the delivery layer into the redirect back to the waitlist page.
type Outcome struct {
	Success bool
	Reason  string // redirect reason code, empty on success
	Message string
}

// AmplifyUsecase orchestrates the LinkedIn amplification workflow: state
// issuance, the OAuth round trip, the media publish pipeline and the
// best-effort ledger write.
type AmplifyUsecase interface {
	// Begin issues an authorization state for the submission and returns
	// the provider authorization URL to redirect the browser to.
	Begin(ctx context.Context, sessionID string, submission *entity.Submission) (string, error)

	// HandleCallback drives the callback through the publish pipeline.
	// It never returns an error: every failure is absorbed into the
	// Outcome's redirect reason.
	HandleCallback(ctx context.Context, sessionID string, input *CallbackInput) *Outcome
}
