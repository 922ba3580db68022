package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lexfield/practice-core/internal/apperr"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/schedule"
	"github.com/lexfield/practice-core/internal/service"
)

type errorResponse struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status, errorResponse{Kind: ae.Kind, Message: ae.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Kind:    apperr.KindInternal,
		Message: "internal error",
	})
}

func parseUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := r.PathValue(key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Invalidf("invalid %s: %q", key, raw)
	}
	return id, nil
}

func queryUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return uuid.Nil, apperr.Invalidf("%s is required", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Invalidf("invalid %s: %q", key, raw)
	}
	return id, nil
}

func queryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, apperr.Invalidf("%s is required", key)
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperr.Invalidf("invalid %s: %q (want YYYY-MM-DD)", key, raw)
	}
	return d, nil
}

// HandleCheckConflicts — POST /v1/conflicts/check.
func (h *Handlers) HandleCheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LawyerID  uuid.UUID  `json:"lawyerId"`
		Start     time.Time  `json:"start"`
		End       time.Time  `json:"end"`
		ExcludeID *uuid.UUID `json:"excludeId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("malformed JSON body"))
		return
	}

	report, err := h.conflicts.CheckConflicts(r.Context(), req.LawyerID, req.Start, req.End, req.ExcludeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleFindSlots — GET /v1/availability?lawyer_id=&date=&duration_minutes=.
func (h *Handlers) HandleFindSlots(w http.ResponseWriter, r *http.Request) {
	lawyerID, err := queryUUID(r, "lawyer_id")
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}

	duration := 0
	if raw := r.URL.Query().Get("duration_minutes"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			writeError(w, apperr.Invalidf("invalid duration_minutes: %q", raw))
			return
		}
	}

	slots, err := h.availability.FindSlots(r.Context(), lawyerID, date, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// HandleOptimizeRoute — GET /v1/route?lawyer_id=&date=.
func (h *Handlers) HandleOptimizeRoute(w http.ResponseWriter, r *http.Request) {
	lawyerID, err := queryUUID(r, "lawyer_id")
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.routes.OptimizeRoute(r.Context(), lawyerID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListLawyers — GET /v1/lawyers?specialty=.
func (h *Handlers) HandleListLawyers(w http.ResponseWriter, r *http.Request) {
	lawyers, err := h.directory.ListLawyers(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lawyers": lawyers})
}

// HandleListAppointments — GET /v1/appointments с обязательными lawyer_id,
// from, to (даты; to не включается) и необязательными фильтрами
// type/status/case_id/client_id, плюс пагинация page/page_size.
func (h *Handlers) HandleListAppointments(w http.ResponseWriter, r *http.Request) {
	lawyerID, err := queryUUID(r, "lawyer_id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, err)
		return
	}

	var q service.ListQuery
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := model.AppointmentType(raw)
		q.Type = &t
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.AppointmentStatus(raw)
		q.Status = &s
	}
	if raw := r.URL.Query().Get("case_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apperr.Invalidf("invalid case_id: %q", raw))
			return
		}
		q.CaseID = &id
	}
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apperr.Invalidf("invalid client_id: %q", raw))
			return
		}
		q.ClientID = &id
	}

	appts, err := h.appointments.List(r.Context(), lawyerID, from, to, q)
	if err != nil {
		writeError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	writeJSON(w, http.StatusOK, schedule.Paginate(appts, page, pageSize))
}

// HandleCreateAppointment — POST /v1/appointments.
func (h *Handlers) HandleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in service.AppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperr.Invalid("malformed JSON body"))
		return
	}

	appt, err := h.appointments.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// HandleGetAppointment — GET /v1/appointments/{id}.
func (h *Handlers) HandleGetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	appt, err := h.appointments.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// HandleConfirmAppointment — POST /v1/appointments/{id}/confirm.
func (h *Handlers) HandleConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.appointments.Confirm(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.AppointmentStatusConfirmed)})
}

// HandleRescheduleAppointment — POST /v1/appointments/{id}/reschedule.
func (h *Handlers) HandleRescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("malformed JSON body"))
		return
	}

	appt, err := h.appointments.Reschedule(r.Context(), id, req.Start, req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// HandleCancelAppointment — DELETE /v1/appointments/{id}.
func (h *Handlers) HandleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.appointments.Cancel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.AppointmentStatusCancelled)})
}

// HandleCreateSeries — POST /v1/series.
func (h *Handlers) HandleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rule     service.SeriesRule     `json:"rule"`
		Template service.SeriesTemplate `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("malformed JSON body"))
		return
	}

	result, err := h.series.CreateSeries(r.Context(), req.Rule, req.Template)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleListSeries — GET /v1/series/{id}?page=&page_size=.
func (h *Handlers) HandleListSeries(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	appts, err := h.series.ListSeries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	writeJSON(w, http.StatusOK, schedule.Paginate(appts, page, pageSize))
}

// HandleUpdateSeries — PATCH /v1/series/{id}.
func (h *Handlers) HandleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd service.SeriesUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, apperr.Invalid("malformed JSON body"))
		return
	}

	updated, err := h.series.UpdateSeries(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updatedCount": updated})
}

// HandleDeleteSeries — DELETE /v1/series/{id}.
func (h *Handlers) HandleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	cancelled, err := h.series.DeleteSeries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cancelledCount": cancelled})
}

// HandleSweep — POST /v1/jobs/sweep.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.sweeper.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"completedCount": n})
}

// HandleReminderScan — POST /v1/jobs/reminders/{kind} (kind: 24h | 2h).
func (h *Handlers) HandleReminderScan(w http.ResponseWriter, r *http.Request) {
	kind := model.ReminderKind(r.PathValue("kind"))
	stats, err := h.reminders.Run(r.Context(), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
