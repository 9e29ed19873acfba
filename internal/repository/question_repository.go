package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindByTrackID(ctx context.Context, trackID string) ([]model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id string) error
	Reindex(ctx context.Context, trackID string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByTrackID(ctx context.Context, trackID string) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("track_id = ?", trackID).Order("idx ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reindex packs the track's question indices into 1..M keeping their order.
// Rows move one at a time in ascending order so every target index is already
// free and the (track_id, idx) unique index holds throughout.
func (r *questionRepository) Reindex(ctx context.Context, trackID string) error {
	var questions []model.Question
	db := r.db.WithContext(ctx)
	if err := db.Select("id", "idx").Where("track_id = ?", trackID).Order("idx ASC").Find(&questions).Error; err != nil {
		return err
	}
	for i, q := range questions {
		if q.Index == i+1 {
			continue
		}
		if err := db.Model(&model.Question{}).Where("id = ?", q.ID).Update("idx", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
