package model

import (
	"time"

	"github.com/lshigami/ieltsprep/internal/grader"
	"gorm.io/datatypes"
)

// Submission states.
const (
	SubmissionInProgress    = "in_progress"
	SubmissionSubmitted     = "submitted"
	SubmissionAutoGraded    = "auto_graded"
	SubmissionPendingManual = "pending_manual"
	SubmissionFinalized     = "finalized"
)

type Submission struct {
	ID            string                                    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TrackID       string                                    `gorm:"type:varchar(36);not null;index" json:"track_id"`
	SubmitterID   string                                    `gorm:"not null;index" json:"submitter_id"`
	Answers       datatypes.JSONType[grader.Answers]        `json:"answers"`
	Verdicts      datatypes.JSONType[[]grader.Verdict]      `json:"verdicts"`
	SectionScores datatypes.JSONType[[]grader.SectionScore] `json:"section_scores"`
	RawScore      float64                                   `gorm:"not null;default:0" json:"raw_score"`
	MaxScore      float64                                   `gorm:"not null;default:0" json:"max_score"`
	Band          *float64                                  `json:"band,omitempty"`
	State         string                                    `gorm:"type:varchar(20);not null;default:in_progress;index" json:"state"`
	SubmittedAt   *time.Time                                `json:"submitted_at,omitempty"`
	GradedAt      *time.Time                                `json:"graded_at,omitempty"`
	FinalizedAt   *time.Time                                `json:"finalized_at,omitempty"`
	Version       int                                       `gorm:"not null;default:0" json:"-"` // bumped by every conditional write
	CreatedAt     time.Time                                 `json:"created_at"`
	UpdatedAt     time.Time                                 `json:"updated_at"`
}
