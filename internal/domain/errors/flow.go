package errors

// Redirect reason codes returned to the browser when the amplification
// flow terminates. These values are a fixed contract with the waitlist page.
const (
	ReasonAuthFailed   = "linkedin_auth_failed"
	ReasonInvalidState = "invalid_state"
	ReasonNoCode       = "no_code"
	ReasonPostFailed   = "post_failed"
)

// FlowError is a terminal amplification-flow failure. It carries the
// reason code embedded in the user-facing redirect alongside the usual
// AppError fields.
type FlowError struct {
	*BaseError
	reason string
}

// NewFlowError creates a terminal flow error with a redirect reason code.
func NewFlowError(reason, errorCode, message string) *FlowError {
	return &FlowError{
		BaseError: NewBaseError(502, errorCode, message, ""),
		reason:    reason,
	}
}

// Reason returns the redirect reason code.
func (e *FlowError) Reason() string {
	return e.reason
}

// WithDetails adds provider error text for diagnosis without changing the
// user-facing message.
func (e *FlowError) WithDetails(details string) *FlowError {
	return &FlowError{
		BaseError: e.BaseError.WithDetails(details),
		reason:    e.reason,
	}
}

// Terminal states of the callback flow, each mapping to a distinct redirect.
var (
	// ErrProviderDenied means the member declined consent or the provider
	// rejected the authorization request.
	ErrProviderDenied = NewFlowError(
		ReasonAuthFailed,
		"PROVIDER_DENIED",
		"LinkedIn authorization was cancelled or failed",
	)

	// ErrInvalidState means the state parameter did not match any pending
	// authorization. Treated as a security event, never retried.
	ErrInvalidState = NewFlowError(
		ReasonInvalidState,
		"INVALID_STATE",
		"Invalid authorization state",
	)

	// ErrNoCode means the callback arrived without an authorization code.
	ErrNoCode = NewFlowError(
		ReasonNoCode,
		"NO_CODE",
		"No authorization code received",
	)

	ErrTokenExchange = NewFlowError(
		ReasonPostFailed,
		"TOKEN_EXCHANGE_FAILED",
		"Failed to exchange authorization code",
	)

	ErrIdentityLookup = NewFlowError(
		ReasonPostFailed,
		"IDENTITY_LOOKUP_FAILED",
		"Failed to look up LinkedIn profile",
	)

	ErrPublish = NewFlowError(
		ReasonPostFailed,
		"PUBLISH_FAILED",
		"Failed to create LinkedIn post",
	)
)
