package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/grader"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionService drives a candidate attempt through
// in_progress -> submitted -> auto_graded | pending_manual.
type SubmissionService interface {
	StartSubmission(ctx context.Context, trackID string, req dto.StartSubmissionRequest) (*dto.SubmissionDTO, error)
	SaveAnswers(ctx context.Context, submissionID string, req dto.SaveAnswersRequest) (*dto.SubmissionDTO, error)
	// Submit locks the answers and grades them.
	Submit(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error)
	// SubmitDocument creates, submits and grades in one call.
	SubmitDocument(ctx context.Context, doc dto.SubmissionDocument) (*dto.SubmissionDTO, error)
	// Grade grades a submitted attempt for the first time.
	Grade(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error)
	// Regrade runs the grader again, keeping any manual grades.
	Regrade(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error)
	GetSubmission(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error)
	GetSubmissions(ctx context.Context, trackID, submitterID string) ([]dto.SubmissionDTO, error)
}

type submissionService struct {
	trackRepo      repository.TrackRepository
	sectionRepo    repository.SectionRepository
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	grader         *grader.Grader
	bands          BandConverterService
}

func NewSubmissionService(
	trackRepo repository.TrackRepository,
	sectionRepo repository.SectionRepository,
	questionRepo repository.QuestionRepository,
	submissionRepo repository.SubmissionRepository,
	g *grader.Grader,
	bands BandConverterService,
) SubmissionService {
	return &submissionService{
		trackRepo:      trackRepo,
		sectionRepo:    sectionRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		grader:         g,
		bands:          bands,
	}
}

func (s *submissionService) StartSubmission(ctx context.Context, trackID string, req dto.StartSubmissionRequest) (*dto.SubmissionDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.activeTrack(ctx, trackID); err != nil {
		return nil, err
	}
	submission := model.Submission{
		TrackID:     trackID,
		SubmitterID: req.SubmitterID,
		Answers:     datatypes.NewJSONType(grader.Answers{}),
		State:       model.SubmissionInProgress,
	}
	if err := s.submissionRepo.Create(ctx, &submission); err != nil {
		log.Error().Err(err).Str("trackID", trackID).Msg("StartSubmission: failed to create submission")
		return nil, fmt.Errorf("error creating submission: %w", err)
	}
	return toSubmissionDTO(&submission), nil
}

// saveAttempts bounds how often an autosave is retried after losing a race
// with another autosave of the same submission.
const saveAttempts = 3

func (s *submissionService) SaveAnswers(ctx context.Context, submissionID string, req dto.SaveAnswersRequest) (*dto.SubmissionDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		submission, err := s.findSubmission(ctx, submissionID)
		if err != nil {
			return nil, err
		}
		if submission.State != model.SubmissionInProgress {
			return nil, ErrSubmissionLocked
		}
		incoming, err := s.keyByQuestionID(ctx, submission.TrackID, req.Answers)
		if err != nil {
			return nil, err
		}
		answers := submission.Answers.Data()
		if answers == nil {
			answers = grader.Answers{}
		}
		for key, raw := range incoming {
			answers[key] = raw
		}
		submission.Answers = datatypes.NewJSONType(answers)
		err = s.submissionRepo.UpdateFrom(ctx, submission, model.SubmissionInProgress)
		if errors.Is(err, repository.ErrStateChanged) && attempt < saveAttempts {
			continue
		}
		if errors.Is(err, repository.ErrStateChanged) {
			return nil, ErrSubmissionLocked
		}
		if err != nil {
			log.Error().Err(err).Str("submissionID", submissionID).Msg("SaveAnswers: failed to save answers")
			return nil, fmt.Errorf("error saving answers: %w", err)
		}
		return toSubmissionDTO(submission), nil
	}
}

func (s *submissionService) Submit(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error) {
	submission, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.State != model.SubmissionInProgress {
		return nil, ErrSubmissionLocked
	}
	now := time.Now().UTC()
	submission.SubmittedAt = &now
	submission.State = model.SubmissionSubmitted
	if err := s.submissionRepo.UpdateFrom(ctx, submission, model.SubmissionInProgress); err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			return nil, ErrSubmissionLocked
		}
		log.Error().Err(err).Str("submissionID", submissionID).Msg("Submit: failed to lock submission")
		return nil, fmt.Errorf("error submitting: %w", err)
	}
	return s.grade(ctx, submission, false)
}

func (s *submissionService) SubmitDocument(ctx context.Context, doc dto.SubmissionDocument) (*dto.SubmissionDTO, error) {
	if err := validateRequest(doc); err != nil {
		return nil, err
	}
	if _, err := s.activeTrack(ctx, doc.TrackID); err != nil {
		return nil, err
	}
	answers, err := s.keyByQuestionID(ctx, doc.TrackID, doc.Answers)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	submission := model.Submission{
		TrackID:     doc.TrackID,
		SubmitterID: doc.SubmitterID,
		Answers:     datatypes.NewJSONType(answers),
		State:       model.SubmissionSubmitted,
		SubmittedAt: &now,
	}
	if err := s.submissionRepo.Create(ctx, &submission); err != nil {
		log.Error().Err(err).Str("trackID", doc.TrackID).Msg("SubmitDocument: failed to create submission")
		return nil, fmt.Errorf("error creating submission: %w", err)
	}
	return s.grade(ctx, &submission, false)
}

func (s *submissionService) Grade(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error) {
	submission, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.State != model.SubmissionSubmitted {
		return nil, fmt.Errorf("%w: cannot grade a submission in state %s", ErrInvalidTransition, submission.State)
	}
	return s.grade(ctx, submission, false)
}

func (s *submissionService) Regrade(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error) {
	submission, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	switch submission.State {
	case model.SubmissionSubmitted, model.SubmissionAutoGraded, model.SubmissionPendingManual:
	default:
		return nil, fmt.Errorf("%w: cannot regrade a submission in state %s", ErrInvalidTransition, submission.State)
	}
	return s.grade(ctx, submission, true)
}

// grade scores every question, then writes the verdicts and, last, the state
// in one transaction. A cancelled context writes nothing.
func (s *submissionService) grade(ctx context.Context, submission *model.Submission, keepManual bool) (*dto.SubmissionDTO, error) {
	track, err := s.trackRepo.FindByID(ctx, submission.TrackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("error fetching track: %w", err)
	}
	items, err := s.gradingItems(ctx, submission.TrackID)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.grader.GradeAll(ctx, items, submission.Answers.Data())
	if err != nil {
		log.Warn().Err(err).Str("submissionID", submission.ID).Msg("Grading aborted; submission left unchanged")
		return nil, err
	}
	if keepManual {
		verdicts = grader.KeepManual(submission.Verdicts.Data(), verdicts)
	}

	summary, err := s.grader.Aggregate(track.TestType, verdicts, s.bands)
	if err != nil {
		log.Warn().Err(err).Str("submissionID", submission.ID).Msg("Band conversion failed; band left empty")
	}

	prior := submission.State
	next := nextState(summary, verdicts)
	now := time.Now().UTC()
	submission.Verdicts = datatypes.NewJSONType(verdicts)
	submission.SectionScores = datatypes.NewJSONType(summary.Sections)
	submission.RawScore = summary.RawScore
	submission.MaxScore = summary.MaxScore
	submission.Band = summary.Band
	submission.GradedAt = &now
	if next == model.SubmissionFinalized {
		submission.FinalizedAt = &now
	}

	if err := persistGrading(ctx, s.submissionRepo, submission, prior, next); err != nil {
		return nil, err
	}

	log.Info().
		Str("submissionID", submission.ID).
		Str("state", next).
		Float64("rawScore", summary.RawScore).
		Float64("maxScore", summary.MaxScore).
		Int("pendingManual", summary.PendingManual).
		Msg("Submission graded")
	return toSubmissionDTO(submission), nil
}

// persistGrading writes the grading results and the next state in one
// conditional update that only lands while the row is still at prior.
func persistGrading(ctx context.Context, submissionRepo repository.SubmissionRepository, submission *model.Submission, prior, next string) error {
	submission.State = next
	if err := submissionRepo.UpdateFrom(ctx, submission, prior); err != nil {
		submission.State = prior
		if errors.Is(err, repository.ErrStateChanged) {
			log.Warn().Str("submissionID", submission.ID).Str("from", prior).Str("to", next).Msg("Grading results discarded: submission changed meanwhile")
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		log.Error().Err(err).Str("submissionID", submission.ID).Msg("Failed to persist grading results")
		return fmt.Errorf("error saving grading results: %w", err)
	}
	return nil
}

// keyByQuestionID stores answers under question ids so they stay with their
// question when indices are repacked after a delete. Index keys are resolved
// first so an explicit id key wins over the same question's index.
func (s *submissionService) keyByQuestionID(ctx context.Context, trackID string, answers grader.Answers) (grader.Answers, error) {
	out := make(grader.Answers, len(answers))
	if len(answers) == 0 {
		return out, nil
	}
	questions, err := s.questionRepo.FindByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	byIndex := make(map[string]string, len(questions))
	for _, q := range questions {
		byIndex[strconv.Itoa(q.Index)] = q.ID
	}
	for key, raw := range answers {
		if id, ok := byIndex[key]; ok {
			out[id] = raw
		}
	}
	for key, raw := range answers {
		if _, ok := byIndex[key]; !ok {
			out[key] = raw
		}
	}
	return out, nil
}

// nextState picks the state after a grading pass. Human grades that already
// cover every needs_manual item finalize the submission.
func nextState(summary grader.Summary, verdicts []grader.Verdict) string {
	if summary.PendingManual > 0 {
		return model.SubmissionPendingManual
	}
	for _, v := range verdicts {
		if v.Manual != nil {
			return model.SubmissionFinalized
		}
	}
	return model.SubmissionAutoGraded
}

func (s *submissionService) gradingItems(ctx context.Context, trackID string) ([]grader.Item, error) {
	sections, err := s.sectionRepo.FindByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("error fetching sections: %w", err)
	}
	sectionIndex := make(map[string]int, len(sections))
	for _, sec := range sections {
		sectionIndex[sec.ID] = sec.Index
	}
	questions, err := s.questionRepo.FindByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	items := make([]grader.Item, len(questions))
	for i, q := range questions {
		items[i] = grader.Item{
			QuestionID:   q.ID,
			Index:        q.Index,
			SectionIndex: sectionIndex[q.SectionID],
			Kind:         registry.Kind(q.Kind),
			Marks:        q.Marks,
			Payload:      json.RawMessage(q.Payload),
		}
	}
	return items, nil
}

func (s *submissionService) GetSubmission(ctx context.Context, submissionID string) (*dto.SubmissionDTO, error) {
	submission, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return toSubmissionDTO(submission), nil
}

func (s *submissionService) GetSubmissions(ctx context.Context, trackID, submitterID string) ([]dto.SubmissionDTO, error) {
	submissions, err := s.submissionRepo.FindAllByTrackAndSubmitter(ctx, trackID, submitterID)
	if err != nil {
		log.Error().Err(err).Str("trackID", trackID).Str("submitterID", submitterID).Msg("Failed to list submissions")
		return nil, fmt.Errorf("error fetching submissions: %w", err)
	}
	dtos := make([]dto.SubmissionDTO, 0, len(submissions))
	for i := range submissions {
		dtos = append(dtos, *toSubmissionDTO(&submissions[i]))
	}
	return dtos, nil
}

func (s *submissionService) findSubmission(ctx context.Context, submissionID string) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		log.Error().Err(err).Str("submissionID", submissionID).Msg("Failed to find submission")
		return nil, fmt.Errorf("error fetching submission %s: %w", submissionID, err)
	}
	return submission, nil
}

func (s *submissionService) activeTrack(ctx context.Context, trackID string) (*model.Track, error) {
	track, err := s.trackRepo.FindByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("error fetching track %s: %w", trackID, err)
	}
	if track.Status != model.TrackStatusActive {
		return nil, ErrTrackNotActive
	}
	return track, nil
}

func toSubmissionDTO(submission *model.Submission) *dto.SubmissionDTO {
	resp := &dto.SubmissionDTO{
		ID:            submission.ID,
		TrackID:       submission.TrackID,
		SubmitterID:   submission.SubmitterID,
		State:         submission.State,
		Answers:       submission.Answers.Data(),
		Verdicts:      submission.Verdicts.Data(),
		SectionScores: submission.SectionScores.Data(),
		RawScore:      submission.RawScore,
		MaxScore:      submission.MaxScore,
		Band:          submission.Band,
		SubmittedAt:   submission.SubmittedAt,
		GradedAt:      submission.GradedAt,
		FinalizedAt:   submission.FinalizedAt,
		CreatedAt:     submission.CreatedAt,
		UpdatedAt:     submission.UpdatedAt,
	}
	for _, v := range resp.Verdicts {
		if v.Pending() {
			resp.PendingManual++
		}
	}
	return resp
}
