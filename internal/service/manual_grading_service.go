package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/grader"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ManualGradingService interface {
	// GetPendingQueue lists pending_manual submissions, oldest first, with the
	// items a human still has to grade.
	GetPendingQueue(ctx context.Context) ([]dto.PendingSubmissionDTO, error)
	// ApplyGrades records human grades and finalizes the submission once
	// nothing is left pending.
	ApplyGrades(ctx context.Context, submissionID string, req dto.ManualGradeRequest) (*dto.SubmissionDTO, error)
}

type manualGradingService struct {
	trackRepo      repository.TrackRepository
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	grader         *grader.Grader
	bands          BandConverterService
	reg            *registry.Registry
}

func NewManualGradingService(
	trackRepo repository.TrackRepository,
	questionRepo repository.QuestionRepository,
	submissionRepo repository.SubmissionRepository,
	g *grader.Grader,
	bands BandConverterService,
	reg *registry.Registry,
) ManualGradingService {
	return &manualGradingService{
		trackRepo:      trackRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		grader:         g,
		bands:          bands,
		reg:            reg,
	}
}

func (s *manualGradingService) GetPendingQueue(ctx context.Context) ([]dto.PendingSubmissionDTO, error) {
	submissions, err := s.submissionRepo.FindByState(ctx, model.SubmissionPendingManual)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load the manual grading queue")
		return nil, fmt.Errorf("error fetching pending submissions: %w", err)
	}

	questionsByTrack := map[string]map[string]model.Question{}
	queue := make([]dto.PendingSubmissionDTO, 0, len(submissions))
	for _, sub := range submissions {
		questions, ok := questionsByTrack[sub.TrackID]
		if !ok {
			list, err := s.questionRepo.FindByTrackID(ctx, sub.TrackID)
			if err != nil {
				return nil, fmt.Errorf("error fetching questions for track %s: %w", sub.TrackID, err)
			}
			questions = make(map[string]model.Question, len(list))
			for _, q := range list {
				questions[q.ID] = q
			}
			questionsByTrack[sub.TrackID] = questions
		}

		entry := dto.PendingSubmissionDTO{
			SubmissionID: sub.ID,
			TrackID:      sub.TrackID,
			SubmitterID:  sub.SubmitterID,
			SubmittedAt:  sub.SubmittedAt,
			Items:        []dto.PendingItemDTO{},
		}
		answers := sub.Answers.Data()
		for _, v := range sub.Verdicts.Data() {
			if !v.Pending() {
				continue
			}
			item := dto.PendingItemDTO{
				QuestionID:    v.QuestionID,
				QuestionIndex: v.QuestionIndex,
				Kind:          string(v.Kind),
				Marks:         v.Marks,
				Notes:         v.Notes,
			}
			if q, ok := questions[v.QuestionID]; ok {
				item.Prompt, item.MinWords = s.promptOf(q)
			}
			item.Answer = answerText(answers.For(grader.Item{QuestionID: v.QuestionID, Index: v.QuestionIndex}))
			item.WordCount = registry.WordCount(item.Answer)
			entry.Items = append(entry.Items, item)
		}
		queue = append(queue, entry)
	}
	return queue, nil
}

// promptOf pulls what a grader needs to see from a stored payload.
func (s *manualGradingService) promptOf(q model.Question) (string, int) {
	payload, errs := s.reg.Decode(registry.Kind(q.Kind), json.RawMessage(q.Payload))
	if payload == nil || errs.HasFatal() {
		return "", 0
	}
	switch p := payload.(type) {
	case *registry.WritingTask1:
		return p.Prompt, p.MinWords
	case *registry.WritingTask2:
		return p.Prompt, p.MinWords
	case *registry.MCQSingle:
		return p.Prompt, 0
	case *registry.MCQMultiple:
		return p.Prompt, 0
	case *registry.SentenceCompletion:
		return p.Prompt, 0
	}
	return "", 0
}

// answerText renders a raw answer for a human: strings as-is, anything else
// as compact JSON.
func answerText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(raw))
}

func (s *manualGradingService) ApplyGrades(ctx context.Context, submissionID string, req dto.ManualGradeRequest) (*dto.SubmissionDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error fetching submission %s: %w", submissionID, err)
	}
	if submission.State != model.SubmissionPendingManual {
		return nil, fmt.Errorf("%w: submission is %s, not pending_manual", ErrInvalidTransition, submission.State)
	}
	track, err := s.trackRepo.FindByID(ctx, submission.TrackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("error fetching track: %w", err)
	}

	verdicts := submission.Verdicts.Data()
	position := make(map[string]int, len(verdicts))
	for i, v := range verdicts {
		position[v.QuestionID] = i
	}
	now := time.Now().UTC()
	for _, g := range req.Grades {
		i, ok := position[g.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %s is not part of this submission", ErrQuestionNotFound, g.QuestionID)
		}
		v := verdicts[i]
		if !v.Pending() && v.Manual == nil {
			return nil, fmt.Errorf("%w: question %s was graded automatically", ErrInvalidRequest, g.QuestionID)
		}
		score := grader.ManualScore{GraderID: req.GraderID, Comment: g.Comment, GradedAt: now}
		if g.Rubric != nil {
			score.Rubric = &grader.Rubric{}
			if err := copier.Copy(score.Rubric, g.Rubric); err != nil {
				return nil, fmt.Errorf("error copying rubric: %w", err)
			}
		}
		if spec, ok := s.reg.Lookup(v.Kind); ok && !spec.Manual {
			if g.Points == nil {
				return nil, fmt.Errorf("%w: question %s needs points", ErrInvalidRequest, g.QuestionID)
			}
			score.Points = *g.Points
		}
		graded, err := s.grader.ApplyManual(v, score)
		if err != nil {
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		verdicts[i] = graded
	}

	summary, err := s.grader.Aggregate(track.TestType, verdicts, s.bands)
	if err != nil {
		log.Warn().Err(err).Str("submissionID", submissionID).Msg("Band conversion failed; band left empty")
	}

	prior := submission.State
	next := model.SubmissionPendingManual
	if summary.PendingManual == 0 {
		next = model.SubmissionFinalized
		submission.FinalizedAt = &now
	}
	submission.Verdicts = datatypes.NewJSONType(verdicts)
	submission.SectionScores = datatypes.NewJSONType(summary.Sections)
	submission.RawScore = summary.RawScore
	submission.MaxScore = summary.MaxScore
	submission.Band = summary.Band
	submission.GradedAt = &now

	if err := persistGrading(ctx, s.submissionRepo, submission, prior, next); err != nil {
		return nil, err
	}
	log.Info().
		Str("submissionID", submissionID).
		Str("graderID", req.GraderID).
		Int("graded", len(req.Grades)).
		Int("pendingManual", summary.PendingManual).
		Str("state", next).
		Msg("Manual grades applied")
	return toSubmissionDTO(submission), nil
}
