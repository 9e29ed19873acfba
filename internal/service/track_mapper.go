package service

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

func toTrackSummaries(rows []repository.TrackWithCounts) []dto.TrackSummaryDTO {
	dtos := make([]dto.TrackSummaryDTO, 0, len(rows))
	for _, row := range rows {
		var summary dto.TrackSummaryDTO
		if err := copier.Copy(&summary, &row.Track); err != nil {
			log.Error().Err(err).Str("trackID", row.ID).Msg("Failed to copy track to summary DTO")
			continue
		}
		summary.SectionCount = row.SectionCount
		summary.QuestionCount = row.QuestionCount
		dtos = append(dtos, summary)
	}
	return dtos
}

// toTrackDTO maps a loaded track tree. With redact set, answer keys are
// stripped from every payload; a payload that no longer decodes is withheld.
func toTrackDTO(reg *registry.Registry, track *model.Track, redact bool) (*dto.TrackDTO, error) {
	var resp dto.TrackDTO
	if err := copier.Copy(&resp, track); err != nil {
		return nil, fmt.Errorf("error preparing track response: %w", err)
	}
	resp.Sections = make([]dto.SectionDTO, 0, len(track.Sections))
	for _, sec := range track.Sections {
		var secDTO dto.SectionDTO
		if err := copier.Copy(&secDTO, &sec); err != nil {
			return nil, fmt.Errorf("error preparing section response: %w", err)
		}
		secDTO.Questions = make([]dto.QuestionDTO, 0, len(sec.Questions))
		for _, q := range sec.Questions {
			qDTO := toQuestionDTO(&q)
			if redact {
				qDTO.Payload = redactPayload(reg, &q)
				qDTO.NeedsAnswerKey = false
			}
			secDTO.Questions = append(secDTO.Questions, qDTO)
		}
		resp.Sections = append(resp.Sections, secDTO)
	}
	return &resp, nil
}

func toQuestionDTO(q *model.Question) dto.QuestionDTO {
	return dto.QuestionDTO{
		ID:             q.ID,
		SectionID:      q.SectionID,
		Index:          q.Index,
		Kind:           q.Kind,
		Marks:          q.Marks,
		NeedsAnswerKey: q.NeedsAnswerKey,
		Payload:        json.RawMessage(q.Payload),
	}
}

func redactPayload(reg *registry.Registry, q *model.Question) json.RawMessage {
	payload, errs := reg.Decode(registry.Kind(q.Kind), json.RawMessage(q.Payload))
	if payload == nil || len(errs) > 0 {
		log.Warn().Str("questionID", q.ID).Str("kind", q.Kind).Msg("Stored payload no longer decodes; withholding it from the student view")
		return json.RawMessage(`{}`)
	}
	body, err := json.Marshal(reg.Redact(payload))
	if err != nil {
		log.Error().Err(err).Str("questionID", q.ID).Msg("Failed to encode redacted payload")
		return json.RawMessage(`{}`)
	}
	return body
}
