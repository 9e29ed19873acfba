package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	WithTx(tx *gorm.DB) SubmissionRepository
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	FindByState(ctx context.Context, state string) ([]model.Submission, error)
	FindAllByTrackAndSubmitter(ctx context.Context, trackID, submitterID string) ([]model.Submission, error)
	UpdateFrom(ctx context.Context, submission *model.Submission, from string) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) WithTx(tx *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: tx}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByState lists submissions oldest first, the order a grading queue is worked.
func (r *submissionRepository) FindByState(ctx context.Context, state string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).Where("state = ?", state).Order("submitted_at ASC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllByTrackAndSubmitter(ctx context.Context, trackID, submitterID string) ([]model.Submission, error) {
	var submissions []model.Submission
	query := r.db.WithContext(ctx).Where("track_id = ?", trackID)
	if submitterID != "" {
		query = query.Where("submitter_id = ?", submitterID)
	}
	err := query.Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

// ErrStateChanged means the stored row moved on since the caller read it,
// e.g. two graders racing or an autosave landing after submit.
var ErrStateChanged = errors.New("submission state changed concurrently")

// UpdateFrom writes answers, grading results and state in one statement, and
// only while the stored row is still in state from at the version the caller
// read. A stale copy therefore never overwrites newer results.
func (r *submissionRepository) UpdateFrom(ctx context.Context, submission *model.Submission, from string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ? AND state = ? AND version = ?", submission.ID, from, submission.Version).
		Updates(map[string]any{
			"answers":        submission.Answers,
			"verdicts":       submission.Verdicts,
			"section_scores": submission.SectionScores,
			"raw_score":      submission.RawScore,
			"max_score":      submission.MaxScore,
			"band":           submission.Band,
			"state":          submission.State,
			"submitted_at":   submission.SubmittedAt,
			"graded_at":      submission.GradedAt,
			"finalized_at":   submission.FinalizedAt,
			"version":        submission.Version + 1,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateChanged
	}
	submission.Version++
	submission.UpdatedAt = now
	return nil
}
