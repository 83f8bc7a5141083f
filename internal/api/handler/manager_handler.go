package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
)

// ManagerHandler serves the manager-scoped reporting routes. Role
// enforcement happens in middleware before any of these run.
type ManagerHandler struct {
	Reports *core.ReportService
	Now     Clock
}

// All lists every employee record for one date (default today).
func (h *ManagerHandler) All(w http.ResponseWriter, r *http.Request) {
	date := h.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apimsg.WriteError(w, apimsg.ValidationDate)
			return
		}
		date = parsed
	}

	records, err := h.Reports.AllForDate(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}

// Employee lists one employee's records for the requested month.
func (h *ManagerHandler) Employee(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	start, end, err := monthPeriod(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		apimsg.WriteError(w, apimsg.ValidationMonth)
		return
	}

	history, err := h.Reports.EmployeeHistory(r.Context(), id, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if history == nil {
		history = []model.AttendanceRecord{}
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(history),
		"history": history,
	})
}

// Summary aggregates the month across the whole team.
func (h *ManagerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := monthPeriod(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		apimsg.WriteError(w, apimsg.ValidationMonth)
		return
	}

	members, totals, err := h.Reports.TeamSummary(r.Context(), start, end, h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(members),
		"summaries": members,
		"totals":    totals,
	})
}

// Export streams the month's team attendance as CSV.
func (h *ManagerHandler) Export(w http.ResponseWriter, r *http.Request) {
	start, end, err := monthPeriod(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		apimsg.WriteError(w, apimsg.ValidationMonth)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=attendance-%s.csv", start.Format("2006-01")))

	if err := h.Reports.ExportCSV(r.Context(), start, end, w); err != nil {
		// Headers are already out; log the cause, the truncated body is
		// the only signal left for the client.
		log.Ctx(r.Context()).Error().Err(err).Msg("CSV export failed mid-stream")
	}
}

// TodayStatus reports each employee's current status.
func (h *ManagerHandler) TodayStatus(w http.ResponseWriter, r *http.Request) {
	team, err := h.Reports.TodayTeamStatus(r.Context(), h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(team),
		"team":    team,
	})
}
