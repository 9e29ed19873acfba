package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionAdminService edits single questions after ingest.
type QuestionAdminService interface {
	// UpdateQuestion merges patch into the stored question and re-runs the
	// normalizer; a fatal result is returned as validation.Errors and nothing
	// is written.
	UpdateQuestion(ctx context.Context, questionID string, patch dto.QuestionPatch) (*dto.QuestionDTO, error)
	// DeleteQuestion removes the question and repacks the track's indices.
	DeleteQuestion(ctx context.Context, questionID string) error
}

type questionAdminService struct {
	questionRepo repository.QuestionRepository
	normalizer   *normalizer.Normalizer
	db           *gorm.DB
}

func NewQuestionAdminService(questionRepo repository.QuestionRepository, norm *normalizer.Normalizer, db *gorm.DB) QuestionAdminService {
	return &questionAdminService{questionRepo: questionRepo, normalizer: norm, db: db}
}

func (s *questionAdminService) UpdateQuestion(ctx context.Context, questionID string, patch dto.QuestionPatch) (*dto.QuestionDTO, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: patch is empty", ErrInvalidRequest)
	}
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error fetching question %s: %w", questionID, err)
	}

	merged, errs := s.normalizer.MergeStored(registry.Kind(question.Kind), question.Marks, json.RawMessage(question.Payload), patch)
	if errs.HasFatal() {
		return nil, errs.Fatal()
	}
	body, err := json.Marshal(merged.Payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding payload: %w", err)
	}

	question.Payload = datatypes.JSON(body)
	question.Marks = merged.Marks
	question.NeedsAnswerKey = merged.NeedsAnswerKey
	if err := s.questionRepo.Update(ctx, question); err != nil {
		log.Error().Err(err).Str("questionID", questionID).Msg("Failed to update question")
		return nil, fmt.Errorf("error updating question: %w", err)
	}
	log.Info().Str("questionID", questionID).Bool("needsAnswerKey", question.NeedsAnswerKey).Msg("Question updated")

	resp := toQuestionDTO(question)
	return &resp, nil
}

func (s *questionAdminService) DeleteQuestion(ctx context.Context, questionID string) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("error fetching question %s: %w", questionID, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.questionRepo.WithTx(tx)
		if err := repo.Delete(ctx, questionID); err != nil {
			return err
		}
		return repo.Reindex(ctx, question.TrackID)
	})
	if err != nil {
		log.Error().Err(err).Str("questionID", questionID).Str("trackID", question.TrackID).Msg("Failed to delete question")
		return fmt.Errorf("error deleting question: %w", err)
	}
	log.Info().Str("questionID", questionID).Str("trackID", question.TrackID).Msg("Question deleted and track reindexed")
	return nil
}
