package web

import (
	"context"
	"net/http"
	"time"

	"github.com/lexfield/practice-core/internal/jobs"
	"github.com/lexfield/practice-core/internal/service"
)

// Handlers — HTTP-фасад календарного ядра. Это тонкая обёртка для
// внешнего REST-слоя: декодирование запроса, вызов сервиса, JSON-ответ.
type Handlers struct {
	appointments *service.AppointmentService
	conflicts    *service.ConflictService
	availability *service.AvailabilityService
	routes       *service.RouteService
	series       *service.SeriesService
	directory    *service.DirectoryService

	sweeper   *jobs.Sweeper
	reminders *jobs.ReminderDispatcher
}

func NewHandlers(
	appointments *service.AppointmentService,
	conflicts *service.ConflictService,
	availability *service.AvailabilityService,
	routes *service.RouteService,
	series *service.SeriesService,
	directory *service.DirectoryService,
	sweeper *jobs.Sweeper,
	reminders *jobs.ReminderDispatcher,
) *Handlers {
	return &Handlers{
		appointments: appointments,
		conflicts:    conflicts,
		availability: availability,
		routes:       routes,
		series:       series,
		directory:    directory,
		sweeper:      sweeper,
		reminders:    reminders,
	}
}

// NewServer собирает HTTP-сервер с маршрутами фасада.
func NewServer(addr string, h *Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /v1/conflicts/check", h.HandleCheckConflicts)
	mux.HandleFunc("GET /v1/availability", h.HandleFindSlots)
	mux.HandleFunc("GET /v1/route", h.HandleOptimizeRoute)

	mux.HandleFunc("GET /v1/lawyers", h.HandleListLawyers)

	mux.HandleFunc("POST /v1/appointments", h.HandleCreateAppointment)
	mux.HandleFunc("GET /v1/appointments", h.HandleListAppointments)
	mux.HandleFunc("GET /v1/appointments/{id}", h.HandleGetAppointment)
	mux.HandleFunc("POST /v1/appointments/{id}/confirm", h.HandleConfirmAppointment)
	mux.HandleFunc("POST /v1/appointments/{id}/reschedule", h.HandleRescheduleAppointment)
	mux.HandleFunc("DELETE /v1/appointments/{id}", h.HandleCancelAppointment)

	mux.HandleFunc("POST /v1/series", h.HandleCreateSeries)
	mux.HandleFunc("GET /v1/series/{id}", h.HandleListSeries)
	mux.HandleFunc("PATCH /v1/series/{id}", h.HandleUpdateSeries)
	mux.HandleFunc("DELETE /v1/series/{id}", h.HandleDeleteSeries)

	// Ручные триггеры фоновых задач (для отладки и операционных нужд;
	// по расписанию их дёргает планировщик).
	mux.HandleFunc("POST /v1/jobs/sweep", h.HandleSweep)
	mux.HandleFunc("POST /v1/jobs/reminders/{kind}", h.HandleReminderScan)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Shutdown мягко гасит сервер.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
