package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

type SectionRepository interface {
	WithTx(tx *gorm.DB) SectionRepository
	CreateBatch(ctx context.Context, sections []model.Section) error
	FindByTrackID(ctx context.Context, trackID string) ([]model.Section, error)
}

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) WithTx(tx *gorm.DB) SectionRepository {
	return &sectionRepository{db: tx}
}

func (r *sectionRepository) CreateBatch(ctx context.Context, sections []model.Section) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Questions").Create(&sections).Error
}

func (r *sectionRepository) FindByTrackID(ctx context.Context, trackID string) ([]model.Section, error) {
	var sections []model.Section
	if err := r.db.WithContext(ctx).Where("track_id = ?", trackID).Order("idx ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}
