// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"waitlist/internal/domain/entity"
	domainerrors "waitlist/internal/domain/errors"
	"waitlist/internal/domain/service"
	"waitlist/internal/usecase"

	"github.com/pkg/errors"
)

// wantsUpgrade flag values recorded in the ledger.
const (
	upgradeNo  = "no"
	upgradeYes = "yes"
)

// waitlistService implements the WaitlistUsecase interface.
type waitlistService struct {
	ledger service.Ledger
	logger *slog.Logger
	now    func() time.Time
}

// NewWaitlistService is the constructor for waitlistService.
func NewWaitlistService(ledger service.Ledger, logger *slog.Logger) usecase.WaitlistUsecase {
	return &waitlistService{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// Join records the submission in the ledger. On this path the ledger
// write is the primary action, so its failure is surfaced.
func (srv *waitlistService) Join(ctx context.Context, submission *entity.Submission) error {
	if err := srv.ledger.EnsureHeaders(ctx, entity.LedgerHeaders()); err != nil {
		srv.logger.Error("Failed to ensure ledger headers", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrLedgerWrite, err.Error())
	}

	if err := srv.ledger.AppendRow(ctx, submission.LedgerRow(srv.now(), upgradeNo)); err != nil {
		srv.logger.Error("Failed to append ledger row", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrLedgerWrite, err.Error())
	}

	srv.logger.Info("Waitlist submission recorded", slog.String("email", submission.Email))

	return nil
}
