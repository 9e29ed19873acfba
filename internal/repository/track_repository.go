package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"gorm.io/gorm"
)

// TrackWithCounts is a catalogue row.
type TrackWithCounts struct {
	model.Track
	SectionCount  int
	QuestionCount int
}

type TrackRepository interface {
	WithTx(tx *gorm.DB) TrackRepository
	Create(ctx context.Context, track *model.Track) error
	FindByID(ctx context.Context, id string) (*model.Track, error)
	FindByIDWithTree(ctx context.Context, id string) (*model.Track, error)
	FindAllWithCounts(ctx context.Context, status string) ([]TrackWithCounts, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type trackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{db: db}
}

func (r *trackRepository) WithTx(tx *gorm.DB) TrackRepository {
	return &trackRepository{db: tx}
}

// Create inserts the track row only; sections and questions are written by
// their own repositories inside the same transaction.
func (r *trackRepository) Create(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Omit("Sections").Create(track).Error
}

func (r *trackRepository) FindByID(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	if err := r.db.WithContext(ctx).First(&track, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepository) FindByIDWithTree(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.idx ASC")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.idx ASC")
		}).
		First(&track, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// FindAllWithCounts lists tracks newest first. An empty status lists all.
func (r *trackRepository) FindAllWithCounts(ctx context.Context, status string) ([]TrackWithCounts, error) {
	var results []TrackWithCounts
	query := r.db.WithContext(ctx).Model(&model.Track{}).
		Select("tracks.*, " +
			"(SELECT COUNT(*) FROM sections WHERE sections.track_id = tracks.id) AS section_count, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.track_id = tracks.id) AS question_count")
	if status != "" {
		query = query.Where("tracks.status = ?", status)
	}
	err := query.Order("tracks.created_at DESC").Scan(&results).Error
	return results, err
}

func (r *trackRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Track{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the track with its sections, questions and submissions.
func (r *trackRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("track_id = ?", id).Delete(&model.Section{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Track{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
