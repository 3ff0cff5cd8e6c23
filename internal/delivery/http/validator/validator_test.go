package validator

import (
	"strings"
	"testing"

	"waitlist/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() *entity.Submission {
	return &entity.Submission{
		Name:      "Test Person",
		Email:     "valid@example.com",
		LinkedIn:  "https://www.linkedin.com/in/valid",
		Hierarchy: "VP",
		Function:  "Marketing",
	}
}

func TestValidate_Submission(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(validSubmission()))
}

func TestValidate_Submission_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Submission)
	}{
		{"missing name", func(s *entity.Submission) { s.Name = "" }},
		{"missing email", func(s *entity.Submission) { s.Email = "" }},
		{"bad email", func(s *entity.Submission) { s.Email = "not-an-email" }},
		{"missing linkedin", func(s *entity.Submission) { s.LinkedIn = "" }},
		{"bad linkedin url", func(s *entity.Submission) { s.LinkedIn = "not a url" }},
		{"missing hierarchy", func(s *entity.Submission) { s.Hierarchy = "" }},
		{"missing function", func(s *entity.Submission) { s.Function = "" }},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission := validSubmission()
			tt.mutate(submission)

			assert.Error(t, v.Validate(submission))
		})
	}
}

func TestValidate_PostContentBoundary(t *testing.T) {
	v := New()

	submission := validSubmission()
	submission.PostContent = strings.Repeat("a", entity.MaxPostContentLength)
	assert.NoError(t, v.Validate(submission))

	submission.PostContent = strings.Repeat("a", entity.MaxPostContentLength+1)
	assert.Error(t, v.Validate(submission))
}
