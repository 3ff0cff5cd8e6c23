// Package usecase defines the application-facing interfaces implemented
// under impl.
package usecase

import (
	"context"

	"waitlist/internal/domain/entity"
)

// WaitlistUsecase covers the plain join path: the submission is recorded
// in the ledger and nothing is published anywhere.
type WaitlistUsecase interface {
	// Join appends exactly one ledger row for the submission.
	Join(ctx context.Context, submission *entity.Submission) error
}
