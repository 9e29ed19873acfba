package model

import (
	"time"

	"gorm.io/datatypes"
)

type Question struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	TrackID        string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_questions_track_idx" json:"track_id"`
	SectionID      string         `gorm:"type:varchar(36);not null;index" json:"section_id"`
	Index          int            `gorm:"column:idx;not null;uniqueIndex:idx_questions_track_idx" json:"index"` // 1-based, across the whole track
	Kind           string         `gorm:"type:varchar(32);not null" json:"kind"`
	Marks          int            `gorm:"not null;default:1" json:"marks"`
	Payload        datatypes.JSON `gorm:"not null" json:"payload"`
	NeedsAnswerKey bool           `gorm:"not null;default:false" json:"needs_answer_key"`
	IsManualGrade  bool           `gorm:"not null;default:false" json:"is_manual_grade"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
