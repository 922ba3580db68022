package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/schedule"
)

// RouteService упорядочивает выездные встречи дня жадной эвристикой
// «ближайший сосед». Точного решения TSP здесь нет и не планируется.
type RouteService struct {
	appts repository.AppointmentRepository
}

func NewRouteService(appts repository.AppointmentRepository) *RouteService {
	return &RouteService{appts: appts}
}

// RouteResult — итог оптимизации маршрута на день.
type RouteResult struct {
	// Встречи в исходном хронологическом порядке.
	Appointments []model.Appointment `json:"appointments"`
	// Порядок визитов после оптимизации.
	OptimizedRoute []schedule.RoutePoint `json:"optimizedRoute"`

	TotalDistanceKm  float64 `json:"totalDistanceKm"`
	EstimatedMinutes int     `json:"estimatedMinutes"`

	// Экономия относительно хронологического порядка.
	SavingsKm      float64 `json:"savingsKm"`
	SavingsPercent float64 `json:"savingsPercent"`

	MapURL  string `json:"mapUrl,omitempty"`
	Message string `json:"message,omitempty"`
}

// OptimizeRoute строит маршрут по активным встречам юриста за день day,
// имеющим координаты. Ноль подходящих встреч — не ошибка: возвращается
// пустой маршрут с пояснением.
func (s *RouteService) OptimizeRoute(ctx context.Context, lawyerID uuid.UUID, day time.Time) (*RouteResult, error) {
	if lawyerID == uuid.Nil {
		return nil, apperr.Invalid("lawyerId is required")
	}
	if day.IsZero() {
		return nil, apperr.Invalid("date is required")
	}

	year, month, dom := day.UTC().Date()
	from := time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	appts, err := s.appts.ListGeoInRange(ctx, lawyerID, from, to)
	if err != nil {
		return nil, storeErr("list geo appointments", err)
	}

	if len(appts) == 0 {
		return &RouteResult{
			Appointments:   []model.Appointment{},
			OptimizedRoute: []schedule.RoutePoint{},
			Message:        "на выбранную дату нет выездных встреч с координатами",
		}, nil
	}

	original := make([]schedule.RoutePoint, 0, len(appts))
	for _, a := range appts {
		original = append(original, routePoint(a))
	}

	optimized := schedule.NearestNeighborOrder(original)

	originalKm := schedule.PathDistanceKm(original)
	optimizedKm := schedule.PathDistanceKm(optimized)

	savingsKm := originalKm - optimizedKm
	savingsPercent := 0.0
	// Нулевая исходная дистанция (одна точка или совпадающие координаты):
	// процент по соглашению равен нулю.
	if originalKm > 0 {
		savingsPercent = savingsKm / originalKm * 100
	}

	return &RouteResult{
		Appointments:     appts,
		OptimizedRoute:   optimized,
		TotalDistanceKm:  optimizedKm,
		EstimatedMinutes: schedule.EstimateTravelMinutes(optimizedKm),
		SavingsKm:        savingsKm,
		SavingsPercent:   savingsPercent,
		MapURL:           schedule.BuildMapURL(optimized),
	}, nil
}

func routePoint(a model.Appointment) schedule.RoutePoint {
	p := schedule.RoutePoint{
		ID:    a.ID.String(),
		Title: string(a.Type),
		Time:  a.StartsAt,
	}
	if a.Latitude != nil {
		p.Latitude = *a.Latitude
	}
	if a.Longitude != nil {
		p.Longitude = *a.Longitude
	}
	if a.Address != nil {
		p.Address = *a.Address
	}
	return p
}
