package impl

import (
	"context"
	"log/slog"
	"time"

	"waitlist/config"
	"waitlist/internal/domain/entity"
	domainerrors "waitlist/internal/domain/errors"
	"waitlist/internal/domain/service"
	"waitlist/internal/usecase"

	"github.com/pkg/errors"
)

// phase names the orchestrator's states; transitions are logged so a
// failed flow can be located in the pipeline.
type phase string

const (
	phaseAwaitingCallback phase = "awaiting_callback"
	phaseExchanging       phase = "exchanging"
	phaseResolving        phase = "resolving"
	phasePublishing       phase = "publishing"
	phaseRecording        phase = "recording"
	phaseDone             phase = "done"
	phaseFailed           phase = "failed"
)

const successMessage = "Your LinkedIn post has been created successfully!"

// amplifyService implements the AmplifyUsecase interface.
type amplifyService struct {
	broker    service.StateBroker
	exchanger service.OAuthExchanger
	identity  service.IdentityResolver
	publisher service.MediaPublisher
	ledger    service.Ledger

	defaultPostText string
	logger          *slog.Logger
	now             func() time.Time
}

// NewAmplifyService is the constructor for amplifyService.
func NewAmplifyService(
	broker service.StateBroker,
	exchanger service.OAuthExchanger,
	identity service.IdentityResolver,
	publisher service.MediaPublisher,
	ledger service.Ledger,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AmplifyUsecase {
	return &amplifyService{
		broker:          broker,
		exchanger:       exchanger,
		identity:        identity,
		publisher:       publisher,
		ledger:          ledger,
		defaultPostText: cfg.LinkedIn.DefaultPostText,
		logger:          logger,
		now:             time.Now,
	}
}

// Begin issues the authorization state and builds the provider redirect.
func (srv *amplifyService) Begin(ctx context.Context, sessionID string, submission *entity.Submission) (string, error) {
	if len(submission.PostContent) > entity.MaxPostContentLength {
		return "", errors.WithStack(domainerrors.ErrPostContentTooLong)
	}

	token, err := srv.broker.Begin(ctx, sessionID, submission)
	if err != nil {
		srv.logger.Error("Failed to issue authorization state", slog.Any("error", err))

		return "", errors.Wrap(domainerrors.ErrStateBegin, err.Error())
	}

	srv.transition(phaseAwaitingCallback, nil)

	return srv.exchanger.BuildAuthorizationURL(token), nil
}

// HandleCallback walks the callback through the state machine. Every
// non-terminal state can fall into failed; recording cannot, its failure
// still ends in done.
func (srv *amplifyService) HandleCallback(ctx context.Context, sessionID string, input *usecase.CallbackInput) *usecase.Outcome {
	// A provider error short-circuits before any state resolution.
	if input.ProviderError != "" {
		return srv.fail(domainerrors.ErrProviderDenied, input.ProviderError)
	}

	submission, ok := srv.broker.Resolve(ctx, sessionID, input.State)
	if !ok {
		return srv.fail(domainerrors.ErrInvalidState, "state not issued, expired or replayed")
	}

	// The state is already consumed at this point; a malformed callback
	// cannot be replayed with the same token.
	if input.Code == "" {
		return srv.fail(domainerrors.ErrNoCode, "")
	}

	srv.transition(phaseExchanging, nil)
	token, err := srv.exchanger.ExchangeCode(ctx, input.Code)
	if err != nil {
		return srv.fail(domainerrors.ErrTokenExchange, err.Error())
	}

	srv.transition(phaseResolving, nil)
	memberID, err := srv.identity.ResolveMemberID(ctx, token)
	if err != nil {
		return srv.fail(domainerrors.ErrIdentityLookup, err.Error())
	}

	srv.transition(phasePublishing, nil)
	post, err := srv.publisher.Publish(ctx, token, memberID, srv.postText(submission))
	if err != nil {
		return srv.fail(domainerrors.ErrPublish, err.Error())
	}

	// Recording is best effort: the post exists, so a ledger failure must
	// not fail the user-facing action.
	srv.transition(phaseRecording, nil)
	srv.record(ctx, submission)

	srv.transition(phaseDone, []slog.Attr{
		slog.String("post_id", post.ID),
		slog.String("token", token.Truncated()),
	})

	return &usecase.Outcome{Success: true, Message: successMessage}
}

func (srv *amplifyService) postText(submission *entity.Submission) string {
	if submission.PostContent != "" {
		return submission.PostContent
	}

	return srv.defaultPostText
}

func (srv *amplifyService) record(ctx context.Context, submission *entity.Submission) {
	if err := srv.ledger.EnsureHeaders(ctx, entity.LedgerHeaders()); err != nil {
		srv.logger.Warn("Ledger header check failed after publish", slog.Any("error", err))

		return
	}

	if err := srv.ledger.AppendRow(ctx, submission.LedgerRow(srv.now(), upgradeYes)); err != nil {
		srv.logger.Warn("Ledger append failed after publish", slog.Any("error", err))

		return
	}

	srv.logger.Info("Amplified submission recorded", slog.String("email", submission.Email))
}

func (srv *amplifyService) fail(flowErr *domainerrors.FlowError, details string) *usecase.Outcome {
	attrs := []slog.Attr{
		slog.String("reason", flowErr.Reason()),
		slog.String("code", flowErr.ErrorCode()),
	}
	if details != "" {
		attrs = append(attrs, slog.String("details", details))
	}
	srv.transition(phaseFailed, attrs)

	return &usecase.Outcome{
		Success: false,
		Reason:  flowErr.Reason(),
		Message: flowErr.Message(),
	}
}

func (srv *amplifyService) transition(to phase, attrs []slog.Attr) {
	all := append([]slog.Attr{slog.String("phase", string(to))}, attrs...)
	srv.logger.LogAttrs(context.Background(), slog.LevelDebug, "Amplification flow transition", all...)
}
