package dto

import (
	"encoding/json"
	"time"
)

// TrackSummaryDTO is a catalogue row.
type TrackSummaryDTO struct {
	ID              string    `json:"id"`
	TestType        string    `json:"test_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	Status          string    `json:"status"`
	SectionCount    int       `json:"section_count"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type QuestionDTO struct {
	ID             string          `json:"id"`
	SectionID      string          `json:"section_id"`
	Index          int             `json:"index"`
	Kind           string          `json:"kind"`
	Marks          int             `json:"marks"`
	NeedsAnswerKey bool            `json:"needs_answer_key,omitempty"`
	Payload        json.RawMessage `json:"payload" swaggertype:"object"`
}

type SectionDTO struct {
	ID                 string        `json:"id"`
	Index              int           `json:"index"`
	Title              string        `json:"title"`
	Instructions       string        `json:"instructions,omitempty"`
	PassageText        *string       `json:"passage_text,omitempty"`
	AudioOffsetSeconds *int          `json:"audio_offset_seconds,omitempty"`
	Questions          []QuestionDTO `json:"questions"`
}

// TrackDTO is a full track tree. Student-facing copies have answer keys redacted.
type TrackDTO struct {
	ID              string       `json:"id"`
	TestType        string       `json:"test_type"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	DurationSeconds int          `json:"duration_seconds"`
	AudioURL        *string      `json:"audio_url,omitempty"`
	Status          string       `json:"status"`
	Sections        []SectionDTO `json:"sections"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
