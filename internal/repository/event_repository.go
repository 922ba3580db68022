package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

type EventRepository interface {
	// Записать событие аудита.
	Create(ctx context.Context, e *model.Event) error
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}
