package dto

import (
	"time"

	"github.com/lshigami/ieltsprep/internal/grader"
)

type StartSubmissionRequest struct {
	SubmitterID string `json:"submitter_id" validate:"required,max=128"`
}

// SaveAnswersRequest merges answers into an in-progress submission, keyed by
// question index ("7") or question id.
type SaveAnswersRequest struct {
	Answers grader.Answers `json:"answers" validate:"required" swaggertype:"object"`
}

// SubmissionDocument is the one-shot form: create, submit and grade.
type SubmissionDocument struct {
	TrackID     string         `json:"track_id" validate:"required"`
	SubmitterID string         `json:"submitter_id" validate:"required,max=128"`
	Answers     grader.Answers `json:"answers" swaggertype:"object"`
}

type SubmissionDTO struct {
	ID            string                `json:"id"`
	TrackID       string                `json:"track_id"`
	SubmitterID   string                `json:"submitter_id"`
	State         string                `json:"state"`
	Answers       grader.Answers        `json:"answers,omitempty" swaggertype:"object"` // keyed by question id
	Verdicts      []grader.Verdict      `json:"verdicts,omitempty"`
	SectionScores []grader.SectionScore `json:"section_scores,omitempty"`
	RawScore      float64               `json:"raw_score"`
	MaxScore      float64               `json:"max_score"`
	Band          *float64              `json:"band,omitempty"`
	PendingManual int                   `json:"pending_manual"`
	SubmittedAt   *time.Time            `json:"submitted_at,omitempty"`
	GradedAt      *time.Time            `json:"graded_at,omitempty"`
	FinalizedAt   *time.Time            `json:"finalized_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// PendingItemDTO is one verdict waiting for a human grader.
type PendingItemDTO struct {
	QuestionID    string   `json:"question_id"`
	QuestionIndex int      `json:"question_index"`
	Kind          string   `json:"kind"`
	Marks         int      `json:"marks"`
	Prompt        string   `json:"prompt,omitempty"`
	MinWords      int      `json:"min_words,omitempty"`
	Answer        string   `json:"answer"`
	WordCount     int      `json:"word_count"`
	Notes         []string `json:"notes,omitempty"`
}

type PendingSubmissionDTO struct {
	SubmissionID string           `json:"submission_id"`
	TrackID      string           `json:"track_id"`
	SubmitterID  string           `json:"submitter_id"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
	Items        []PendingItemDTO `json:"items"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
