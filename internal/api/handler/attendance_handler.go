package handler

import (
	"net/http"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/api/middleware"
	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
)

// AttendanceHandler serves the employee-facing attendance routes.
type AttendanceHandler struct {
	Service *core.AttendanceService
	Now     Clock
}

// CheckIn marks the start of today's work day.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	rec, err := h.Service.CheckIn(r.Context(), user.ID, h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Checked in successfully",
		"attendance": rec,
	})
}

// CheckOut closes today's work day.
func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	rec, err := h.Service.CheckOut(r.Context(), user.ID, h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Checked out successfully",
		"attendance": rec,
	})
}

// Today reports today's status; not-marked with a null record when the
// user has not checked in yet.
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	status, rec, err := h.Service.GetTodayStatus(r.Context(), user.ID, h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"status":     status,
		"attendance": rec,
	})
}

// MyHistory lists the user's records for the requested month.
func (h *AttendanceHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	start, end, err := monthPeriod(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		apimsg.WriteError(w, apimsg.ValidationMonth)
		return
	}

	history, err := h.Service.History(r.Context(), user.ID, start, end)
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

// MySummary rolls up the user's month.
func (h *AttendanceHandler) MySummary(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	start, end, err := monthPeriod(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		apimsg.WriteError(w, apimsg.ValidationMonth)
		return
	}

	summary, err := h.Service.ComputeSummary(r.Context(), user.ID, start, end, h.Now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": summary,
	})
}
