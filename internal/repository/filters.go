package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/model"
)

// Filter — один необязательный типизированный предикат поверх базового
// запроса. Ноль и более фильтров компонуются в один параметризованный
// запрос; никакой конкатенации SQL-строк.
type Filter interface {
	Apply(q *gorm.DB) *gorm.DB
}

// ApplyFilters последовательно накладывает фильтры на запрос.
func ApplyFilters(q *gorm.DB, filters ...Filter) *gorm.DB {
	for _, f := range filters {
		if f != nil {
			q = f.Apply(q)
		}
	}
	return q
}

// ByType — встречи заданного типа.
type ByType struct {
	Type model.AppointmentType
}

func (f ByType) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("type = ?", f.Type)
}

// ByStatus — встречи в заданном статусе.
type ByStatus struct {
	Status model.AppointmentStatus
}

func (f ByStatus) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("status = ?", f.Status)
}

// ByCase — встречи, привязанные к делу.
type ByCase struct {
	CaseID uuid.UUID
}

func (f ByCase) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("case_id = ?", f.CaseID)
}

// ByClient — встречи конкретного клиента.
type ByClient struct {
	ClientID uuid.UUID
}

func (f ByClient) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("client_id = ?", f.ClientID)
}

// BySpecialty — юристы заданной специализации (каталожный фильтр).
type BySpecialty struct {
	Specialty string
}

func (f BySpecialty) Apply(q *gorm.DB) *gorm.DB {
	return q.Where("specialty = ?", f.Specialty)
}
