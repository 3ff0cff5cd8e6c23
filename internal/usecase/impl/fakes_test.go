package impl

import (
	"context"
	"io"
	"log/slog"

	"waitlist/internal/domain/entity"
	"waitlist/internal/domain/service"

	"github.com/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBroker hands out a fixed token and resolves it once.
type fakeBroker struct {
	token      string
	submission *entity.Submission
	beginErr   error

	beginCalls   int
	resolveCalls int
	consumed     bool
}

func (f *fakeBroker) Begin(_ context.Context, _ string, submission *entity.Submission) (string, error) {
	f.beginCalls++
	if f.beginErr != nil {
		return "", f.beginErr
	}
	f.submission = submission

	return f.token, nil
}

func (f *fakeBroker) Resolve(_ context.Context, _ string, token string) (*entity.Submission, bool) {
	f.resolveCalls++
	if f.consumed || token != f.token || f.submission == nil {
		return nil, false
	}
	f.consumed = true

	return f.submission, true
}

// fakeExchanger captures the built URL and returns a canned token.
type fakeExchanger struct {
	token service.AccessToken
	err   error

	exchangedCode string
}

func (f *fakeExchanger) BuildAuthorizationURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeExchanger) ExchangeCode(_ context.Context, code string) (service.AccessToken, error) {
	f.exchangedCode = code
	if f.err != nil {
		return "", f.err
	}

	return f.token, nil
}

type fakeIdentity struct {
	memberID string
	err      error
}

func (f *fakeIdentity) ResolveMemberID(context.Context, service.AccessToken) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return f.memberID, nil
}

type fakePublisher struct {
	post *service.PublishedPost
	err  error

	publishedText string
	calls         int
}

func (f *fakePublisher) Publish(_ context.Context, _ service.AccessToken, _ string, text string) (*service.PublishedPost, error) {
	f.calls++
	f.publishedText = text
	if f.err != nil {
		return nil, f.err
	}

	return f.post, nil
}

// fakeLedger records appended rows and can fail either operation.
type fakeLedger struct {
	headersErr error
	appendErr  error

	ensureCalls int
	headers     []string
	rows        [][]string
}

func (f *fakeLedger) EnsureHeaders(_ context.Context, headers []string) error {
	f.ensureCalls++
	if f.headersErr != nil {
		return f.headersErr
	}
	f.headers = headers

	return nil
}

func (f *fakeLedger) AppendRow(_ context.Context, row []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, row)

	return nil
}

var errUpstream = errors.New("upstream unavailable")
