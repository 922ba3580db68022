package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

type AppointmentRepository interface {
	// Найти встречу по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Создать встречу.
	Create(ctx context.Context, a *model.Appointment) error
	// Частичное обновление полей.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// Перевести встречу в cancelled.
	Cancel(ctx context.Context, id uuid.UUID) error

	// Встречи юриста любого статуса, чей интервал пересекает [from, to),
	// с необязательными типизированными фильтрами.
	List(ctx context.Context, lawyerID uuid.UUID, from, to time.Time, filters ...Filter) ([]model.Appointment, error)
	// Активные встречи юриста, чей интервал пересекает [from, to).
	ListActiveInRange(ctx context.Context, lawyerID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
	// Активные встречи, пересекающиеся с кандидатом [start, end);
	// excludeID исключает редактируемую встречу из набора.
	ListActiveOverlapping(ctx context.Context, lawyerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Appointment, error)
	// Активные встречи юриста за [from, to) с непустыми координатами.
	ListGeoInRange(ctx context.Context, lawyerID uuid.UUID, from, to time.Time) ([]model.Appointment, error)

	// Перевести все активные встречи с ends_at < now в completed одним
	// UPDATE. Повторный запуск без сдвига времени затрагивает 0 строк.
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Активные встречи, начинающиеся в [windowStart, windowEnd),
	// для которых флаг окна kind ещё не выставлен.
	ListDueForReminder(ctx context.Context, kind model.ReminderKind, windowStart, windowEnd time.Time) ([]model.Appointment, error)
	// Выставить флаг напоминания. Флаг монотонный: обновляются только
	// строки, где он ещё false.
	MarkReminderSent(ctx context.Context, id uuid.UUID, kind model.ReminderKind, at time.Time) error
}

// Реализация на GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAppointmentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormAppointmentRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", model.AppointmentStatusCancelled).
		Error
}

func (r *GormAppointmentRepository) List(
	ctx context.Context,
	lawyerID uuid.UUID,
	from, to time.Time,
	filters ...Filter,
) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("lawyer_id = ?", lawyerID).
		Where("starts_at < ? AND ends_at > ?", to, from)
	q = ApplyFilters(q, filters...)

	var appts []model.Appointment
	if err := q.Order("starts_at ASC").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) ListActiveInRange(
	ctx context.Context,
	lawyerID uuid.UUID,
	from, to time.Time,
) ([]model.Appointment, error) {
	return r.listOverlapping(ctx, lawyerID, from, to, nil, false)
}

func (r *GormAppointmentRepository) ListActiveOverlapping(
	ctx context.Context,
	lawyerID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) ([]model.Appointment, error) {
	return r.listOverlapping(ctx, lawyerID, start, end, excludeID, false)
}

func (r *GormAppointmentRepository) ListGeoInRange(
	ctx context.Context,
	lawyerID uuid.UUID,
	from, to time.Time,
) ([]model.Appointment, error) {
	return r.listOverlapping(ctx, lawyerID, from, to, nil, true)
}

// listOverlapping — общий предикат пересечения полуоткрытых интервалов:
// starts_at < to AND ends_at > from. Интервальная математика в SQL живёт
// только здесь.
func (r *GormAppointmentRepository) listOverlapping(
	ctx context.Context,
	lawyerID uuid.UUID,
	from, to time.Time,
	excludeID *uuid.UUID,
	geoOnly bool,
) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("lawyer_id = ?", lawyerID).
		Where("status IN ?", model.ActiveStatuses()).
		Where("starts_at < ? AND ends_at > ?", to, from)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if geoOnly {
		q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	}

	var appts []model.Appointment
	if err := q.Order("starts_at ASC").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("status IN ?", model.ActiveStatuses()).
		Where("ends_at < ?", now).
		Update("status", model.AppointmentStatusCompleted)
	return res.RowsAffected, res.Error
}

func (r *GormAppointmentRepository) ListDueForReminder(
	ctx context.Context,
	kind model.ReminderKind,
	windowStart, windowEnd time.Time,
) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("status IN ?", model.ActiveStatuses()).
		Where("starts_at >= ? AND starts_at < ?", windowStart, windowEnd).
		Where(reminderFlagColumn(kind)+" = ?", false).
		Order("starts_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) MarkReminderSent(
	ctx context.Context,
	id uuid.UUID,
	kind model.ReminderKind,
	at time.Time,
) error {
	flag := reminderFlagColumn(kind)
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Where(flag+" = ?", false).
		Updates(map[string]any{
			flag:         true,
			flag + "_at": at,
		}).Error
}

func reminderFlagColumn(kind model.ReminderKind) string {
	if kind == model.ReminderKindShort {
		return "reminder2h_sent"
	}
	return "reminder24h_sent"
}
