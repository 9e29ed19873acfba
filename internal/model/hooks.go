package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (t *Track) BeforeCreate(*gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (s *Section) BeforeCreate(*gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (q *Question) BeforeCreate(*gorm.DB) error {
	newID(&q.ID)
	return nil
}

func (s *Submission) BeforeCreate(*gorm.DB) error {
	newID(&s.ID)
	return nil
}
