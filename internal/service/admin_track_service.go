package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// allowedTransitions lists the status moves an admin may make.
var allowedTransitions = map[string][]string{
	model.TrackStatusDraft:    {model.TrackStatusActive},
	model.TrackStatusActive:   {model.TrackStatusArchived},
	model.TrackStatusArchived: {model.TrackStatusActive},
}

type AdminTrackService interface {
	GetTracks(ctx context.Context, status string) ([]dto.TrackSummaryDTO, error)
	GetTrackDetails(ctx context.Context, trackID string) (*dto.TrackDTO, error)
	UpdateStatus(ctx context.Context, trackID string, req dto.TrackStatusRequest) error
	DeleteTrack(ctx context.Context, trackID string) error
	GenerateDraft(ctx context.Context, req dto.DraftRequest) (*dto.IngestReport, error)
}

type adminTrackService struct {
	trackRepo repository.TrackRepository
	ingest    TrackIngestService
	llm       GeminiLLMService
	reg       *registry.Registry
}

func NewAdminTrackService(
	trackRepo repository.TrackRepository,
	ingest TrackIngestService,
	llm GeminiLLMService,
	reg *registry.Registry,
) AdminTrackService {
	return &adminTrackService{trackRepo: trackRepo, ingest: ingest, llm: llm, reg: reg}
}

func (s *adminTrackService) GetTracks(ctx context.Context, status string) ([]dto.TrackSummaryDTO, error) {
	rows, err := s.trackRepo.FindAllWithCounts(ctx, status)
	if err != nil {
		log.Error().Err(err).Str("status", status).Msg("Failed to list tracks")
		return nil, fmt.Errorf("error fetching tracks: %w", err)
	}
	return toTrackSummaries(rows), nil
}

func (s *adminTrackService) GetTrackDetails(ctx context.Context, trackID string) (*dto.TrackDTO, error) {
	track, err := s.trackRepo.FindByIDWithTree(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		log.Error().Err(err).Str("trackID", trackID).Msg("Failed to load track tree")
		return nil, fmt.Errorf("error fetching track %s: %w", trackID, err)
	}
	return toTrackDTO(s.reg, track, false)
}

func (s *adminTrackService) UpdateStatus(ctx context.Context, trackID string, req dto.TrackStatusRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	track, err := s.trackRepo.FindByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackNotFound
		}
		return fmt.Errorf("error fetching track %s: %w", trackID, err)
	}
	if track.Status == req.Status {
		return nil
	}
	if !canTransition(track.Status, req.Status) {
		return fmt.Errorf("%w: track cannot move from %s to %s", ErrInvalidTransition, track.Status, req.Status)
	}
	if err := s.trackRepo.UpdateStatus(ctx, trackID, req.Status); err != nil {
		log.Error().Err(err).Str("trackID", trackID).Str("status", req.Status).Msg("Failed to update track status")
		return fmt.Errorf("error updating track status: %w", err)
	}
	log.Info().Str("trackID", trackID).Str("from", track.Status).Str("to", req.Status).Msg("Track status changed")
	return nil
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *adminTrackService) DeleteTrack(ctx context.Context, trackID string) error {
	if err := s.trackRepo.Delete(ctx, trackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackNotFound
		}
		log.Error().Err(err).Str("trackID", trackID).Msg("Failed to delete track")
		return fmt.Errorf("error deleting track %s: %w", trackID, err)
	}
	log.Info().Str("trackID", trackID).Msg("Track deleted")
	return nil
}

// GenerateDraft asks the LLM for a track document and ingests it unchanged.
// Drafts commonly lack answer keys; those come back as warnings.
func (s *adminTrackService) GenerateDraft(ctx context.Context, req dto.DraftRequest) (*dto.IngestReport, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Sections == 0 {
		req.Sections = defaultDraftSections(req.TestType)
	}
	raw, err := s.llm.DraftTrack(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.ingest.Ingest(ctx, raw)
}

func defaultDraftSections(testType string) int {
	switch registry.Skill(testType) {
	case registry.SkillWriting:
		return 2
	case registry.SkillReading:
		return 3
	default:
		return 4
	}
}
