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

// UserTrackService is the student-facing catalogue. Only active tracks are
// visible and answer keys never leave the service.
type UserTrackService interface {
	GetActiveTracks(ctx context.Context) ([]dto.TrackSummaryDTO, error)
	GetTrackDetails(ctx context.Context, trackID string) (*dto.TrackDTO, error)
}

type userTrackService struct {
	trackRepo repository.TrackRepository
	reg       *registry.Registry
}

func NewUserTrackService(trackRepo repository.TrackRepository, reg *registry.Registry) UserTrackService {
	return &userTrackService{trackRepo: trackRepo, reg: reg}
}

func (s *userTrackService) GetActiveTracks(ctx context.Context) ([]dto.TrackSummaryDTO, error) {
	rows, err := s.trackRepo.FindAllWithCounts(ctx, model.TrackStatusActive)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get active tracks from repository")
		return nil, fmt.Errorf("error fetching tracks: %w", err)
	}
	return toTrackSummaries(rows), nil
}

func (s *userTrackService) GetTrackDetails(ctx context.Context, trackID string) (*dto.TrackDTO, error) {
	track, err := s.trackRepo.FindByIDWithTree(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		log.Error().Err(err).Str("trackID", trackID).Msg("Failed to get track details from repository")
		return nil, fmt.Errorf("error fetching track %s: %w", trackID, err)
	}
	if track.Status != model.TrackStatusActive {
		return nil, ErrTrackNotFound
	}
	return toTrackDTO(s.reg, track, true)
}
