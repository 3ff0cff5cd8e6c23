// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// MaxPostContentLength bounds the user-edited text published to the
// member's feed. Submissions above this are rejected before any flow starts.
const MaxPostContentLength = 1200

// Submission is a validated waitlist form payload. It is immutable once
// created and owned by the request that created it until it is handed to
// the ledger.
type Submission struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	LinkedIn        string `json:"linkedin" validate:"required,url"`
	Hierarchy       string `json:"hierarchy" validate:"required"`
	Function        string `json:"function" validate:"required"`
	CompanySize     string `json:"companySize"`
	UseCase         string `json:"useCase"`
	PainPoint       string `json:"painPoint"`
	CurrentSolution string `json:"currentSolution"`
	Suggestions     string `json:"suggestions"`

	// PostContent is the user-edited text for the amplification post.
	PostContent string `json:"postContent" validate:"omitempty,max=1200"`

	// WantsAmplification marks the submission for the LinkedIn publish
	// path instead of the plain waitlist join.
	WantsAmplification bool `json:"wantsAmplification"`
}

// LedgerHeaders is the fixed header row of the ledger spreadsheet. The
// column order is a contract shared with the sheet's consumers.
func LedgerHeaders() []string {
	return []string{
		"Timestamp",
		"Name",
		"Email",
		"LinkedIn",
		"Hierarchy",
		"Function",
		"Company Size",
		"Primary Goal (Next 90 Days)",
		"Biggest Pain Point",
		"Current Solution",
		"Suggestions",
		"Wants Upgrade",
	}
}

// LedgerRow flattens the submission into the ledger's column order.
// wantsUpgrade records the outcome of the amplification choice ("yes"/"no").
func (s *Submission) LedgerRow(ts time.Time, wantsUpgrade string) []string {
	return []string{
		ts.UTC().Format(time.RFC3339),
		s.Name,
		s.Email,
		s.LinkedIn,
		s.Hierarchy,
		s.Function,
		s.CompanySize,
		s.UseCase,
		s.PainPoint,
		s.CurrentSolution,
		s.Suggestions,
		wantsUpgrade,
	}
}

// AuthorizationState pairs a one-time CSRF token with the submission that
// is pending the provider round trip. Copies live in both the session
// store and the fallback store; whichever serves the lookup consumes it.
type AuthorizationState struct {
	Token      string
	Submission *Submission
	CreatedAt  time.Time
}
