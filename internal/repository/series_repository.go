package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

type SeriesRepository interface {
	// Создать строку серии.
	Create(ctx context.Context, s *model.RecurringSeries) error
	// Найти серию по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringSeries, error)
	// Перевести серию в ended. Строка остаётся инертной записью.
	MarkEnded(ctx context.Context, id uuid.UUID) error
	// Все экземпляры серии независимо от статуса, по возрастанию начала.
	ListInstances(ctx context.Context, seriesID uuid.UUID) ([]model.Appointment, error)
}

type GormSeriesRepository struct {
	db *gorm.DB
}

func NewGormSeriesRepository(db *gorm.DB) *GormSeriesRepository {
	return &GormSeriesRepository{db: db}
}

func (r *GormSeriesRepository) Create(ctx context.Context, s *model.RecurringSeries) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormSeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringSeries, error) {
	var s model.RecurringSeries
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSeriesRepository) MarkEnded(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RecurringSeries{}).
		Where("id = ?", id).
		Update("status", model.SeriesStatusEnded).
		Error
}

func (r *GormSeriesRepository) ListInstances(ctx context.Context, seriesID uuid.UUID) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("starts_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}
