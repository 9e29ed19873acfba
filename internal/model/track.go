package model

import (
	"time"
)

// Track statuses.
const (
	TrackStatusDraft    = "draft"
	TrackStatusActive   = "active"
	TrackStatusArchived = "archived"
)

type Track struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TestType        string    `gorm:"type:varchar(16);not null;index" json:"test_type"` // "listening", "reading", "writing"
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	AudioURL        *string   `json:"audio_url,omitempty"`
	Status          string    `gorm:"type:varchar(16);not null;default:draft;index" json:"status"`
	Sections        []Section `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Section struct {
	ID                 string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TrackID            string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_sections_track_idx" json:"track_id"`
	Index              int        `gorm:"column:idx;not null;uniqueIndex:idx_sections_track_idx" json:"index"`
	Title              string     `json:"title"`
	Instructions       string     `gorm:"type:text" json:"instructions,omitempty"`
	PassageText        *string    `gorm:"type:text" json:"passage_text,omitempty"`
	AudioOffsetSeconds *int       `json:"audio_offset_seconds,omitempty"`
	Questions          []Question `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
