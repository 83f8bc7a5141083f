// Package handler holds the HTTP request handlers. Handlers decode and
// validate input, call the domain services and translate their sentinel
// errors into catalog messages; nothing here owns business rules.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/core"
)

// Clock supplies "now" so tests can pin time. Defaults to time.Now.
type Clock func() time.Time

// writeDomainError maps a domain error onto the catalog. Anything
// unrecognized is an internal failure and gets logged with its cause.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrAlreadyCheckedIn):
		apimsg.WriteError(w, apimsg.AlreadyCheckedIn)
	case errors.Is(err, core.ErrAlreadyCheckedOut):
		apimsg.WriteError(w, apimsg.AlreadyCheckedOut)
	case errors.Is(err, core.ErrNoActiveCheckIn):
		apimsg.WriteError(w, apimsg.NoActiveCheckIn)
	case errors.Is(err, core.ErrUserExists):
		apimsg.WriteError(w, apimsg.UserAlreadyExists)
	case errors.Is(err, core.ErrUserNotFound):
		apimsg.WriteError(w, apimsg.UserNotFound)
	case errors.Is(err, core.ErrInvalidCredentials):
		apimsg.WriteError(w, apimsg.InvalidCredentials)
	case errors.Is(err, core.ErrManagerSignup):
		apimsg.WriteError(w, apimsg.ManagerRegistrationForbidden)
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		apimsg.WriteError(w, apimsg.InternalServerError)
	}
}

// monthPeriod resolves the optional ?month=YYYY-MM query into an
// inclusive first-to-last-day range, defaulting to the current month.
func monthPeriod(raw string, now time.Time) (start, end time.Time, err error) {
	if raw == "" {
		now = now.UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		start, err = time.Parse("2006-01", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	end = start.AddDate(0, 1, -1)
	return start, end, nil
}
