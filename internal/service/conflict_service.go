package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
)

// ConflictService — единственный источник истины про пересечения
// календаря. Проверки перед записью и подбор слотов делегируют сюда,
// а не дублируют интервальную математику.
type ConflictService struct {
	appts repository.AppointmentRepository
}

func NewConflictService(appts repository.AppointmentRepository) *ConflictService {
	return &ConflictService{appts: appts}
}

// ConflictReport — результат проверки. Конфликт не ошибка: отчёт всегда
// возвращается успешно, решение о записи остаётся за вызывающей стороной.
type ConflictReport struct {
	HasConflict bool                `json:"hasConflict"`
	Conflicts   []model.Appointment `json:"conflicts"`
}

// CheckConflicts возвращает активные встречи юриста, пересекающиеся с
// кандидатом [start, end). excludeID исключает редактируемую встречу.
// Результат упорядочен по началу.
func (s *ConflictService) CheckConflicts(
	ctx context.Context,
	lawyerID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) (*ConflictReport, error) {
	if lawyerID == uuid.Nil {
		return nil, apperr.Invalid("lawyerId is required")
	}
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}

	conflicts, err := s.appts.ListActiveOverlapping(ctx, lawyerID, start, end, excludeID)
	if err != nil {
		return nil, storeErr("list overlapping appointments", err)
	}

	return &ConflictReport{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}, nil
}
