package dto

import (
	"encoding/json"

	"github.com/lshigami/ieltsprep/internal/validation"
)

// IngestDocument is a whole track as authored: metadata plus sections, each
// carrying loosely shaped question objects for the normalizer.
type IngestDocument struct {
	TestType        string          `json:"test_type" example:"listening"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DurationSeconds int             `json:"duration_seconds" example:"1800"`
	AudioURL        *string         `json:"audio_url,omitempty"`
	Sections        []IngestSection `json:"sections"`
}

type IngestSection struct {
	Index              *int              `json:"index,omitempty"` // position in the document when omitted
	Title              string            `json:"title"`
	Instructions       string            `json:"instructions"`
	PassageText        *string           `json:"passage_text,omitempty"`
	AudioOffsetSeconds *int              `json:"audio_offset_seconds,omitempty"`
	Questions          []json.RawMessage `json:"questions" swaggertype:"array,object"`
}

// IngestReport is returned by ingest and validate, successful or not.
type IngestReport struct {
	TrackID          string            `json:"track_id,omitempty"`
	SectionsCreated  int               `json:"sections_created"`
	QuestionsCreated int               `json:"questions_created"`
	QuestionsByKind  map[string]int    `json:"questions_by_kind"`
	Warnings         validation.Errors `json:"warnings"`
	Errors           validation.Errors `json:"errors,omitempty"`
}

type TrackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active archived"`
}

// QuestionPatch holds the fields to overwrite on a stored question, in the
// same loose shape the normalizer accepts. The kind cannot change.
type QuestionPatch map[string]any

type RubricDTO struct {
	TaskResponse float64 `json:"task_response" validate:"gte=0,lte=9"`
	Coherence    float64 `json:"coherence" validate:"gte=0,lte=9"`
	Lexical      float64 `json:"lexical" validate:"gte=0,lte=9"`
	Grammar      float64 `json:"grammar" validate:"gte=0,lte=9"`
}

// ManualGradeDTO grades one needs_manual item. Writing items take a rubric,
// anything else takes points.
type ManualGradeDTO struct {
	QuestionID string     `json:"question_id" validate:"required"`
	Rubric     *RubricDTO `json:"rubric,omitempty"`
	Points     *float64   `json:"points,omitempty" validate:"omitempty,gte=0"`
	Comment    string     `json:"comment,omitempty" validate:"max=4000"`
}

type ManualGradeRequest struct {
	GraderID string           `json:"grader_id" validate:"required,max=128"`
	Grades   []ManualGradeDTO `json:"grades" validate:"required,min=1,dive"`
}

// DraftRequest asks the LLM for a track draft that then goes through ingest.
type DraftRequest struct {
	TestType string `json:"test_type" validate:"required,oneof=listening reading writing"`
	Topic    string `json:"topic" validate:"required,max=200"`
	Sections int    `json:"sections" validate:"omitempty,min=1,max=4"`
}
