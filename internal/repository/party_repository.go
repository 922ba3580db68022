package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

// Карточки сторон нужны ядру только для проверок существования и
// контактов при рассылке напоминаний; их CRUD живёт в соседнем сервисе.

type LawyerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Lawyer, error)
	// Юристы по необязательным фильтрам каталога.
	List(ctx context.Context, filters ...Filter) ([]model.Lawyer, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
}

type GormLawyerRepository struct {
	db *gorm.DB
}

func NewGormLawyerRepository(db *gorm.DB) *GormLawyerRepository {
	return &GormLawyerRepository{db: db}
}

func (r *GormLawyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lawyer, error) {
	var l model.Lawyer
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *GormLawyerRepository) List(ctx context.Context, filters ...Filter) ([]model.Lawyer, error) {
	q := r.db.WithContext(ctx).Model(&model.Lawyer{})
	q = ApplyFilters(q, filters...)

	var lawyers []model.Lawyer
	if err := q.Order("display_name ASC").Find(&lawyers).Error; err != nil {
		return nil, err
	}
	return lawyers, nil
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
