package api

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/api/handler"
	"attendance.service/internal/api/middleware"
	"attendance.service/internal/core"
	"attendance.service/internal/ports/repository"
	"attendance.service/pkg/credentials"
)

//go:embed landing.html
var landingPage []byte

// Deps bundles everything the router needs wired in.
type Deps struct {
	Auth       *core.AuthService
	Attendance *core.AttendanceService
	Reports    *core.ReportService
	Creds      *credentials.Manager
	Users      repository.UserRepository

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

// NewRouter sets up the gorilla/mux router and defines all routes.
func NewRouter(d Deps) *mux.Router {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	authHandler := handler.AuthHandler{Service: d.Auth, Validate: validator.New()}
	attendanceHandler := handler.AttendanceHandler{Service: d.Attendance, Now: now}
	managerHandler := handler.ManagerHandler{Reports: d.Reports, Now: now}

	authenticate := middleware.Authenticate(d.Creds, d.Users)

	r := mux.NewRouter()

	// Marketing landing page and health probe sit outside /api.
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(landingPage)
	}).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.Handle("/current", authenticate(http.HandlerFunc(authHandler.Current))).Methods(http.MethodGet)

	attendance := api.PathPrefix("/attendance").Subrouter()
	attendance.Use(authenticate)
	attendance.HandleFunc("/checkin", attendanceHandler.CheckIn).Methods(http.MethodPost)
	attendance.HandleFunc("/checkout", attendanceHandler.CheckOut).Methods(http.MethodPost)
	attendance.HandleFunc("/today", attendanceHandler.Today).Methods(http.MethodGet)
	attendance.HandleFunc("/my-history", attendanceHandler.MyHistory).Methods(http.MethodGet)
	attendance.HandleFunc("/my-summary", attendanceHandler.MySummary).Methods(http.MethodGet)

	manager := api.PathPrefix("/manager/attendance").Subrouter()
	manager.Use(authenticate, middleware.RequireManager())
	manager.HandleFunc("/all", managerHandler.All).Methods(http.MethodGet)
	manager.HandleFunc("/employee/{id}", managerHandler.Employee).Methods(http.MethodGet)
	manager.HandleFunc("/summary", managerHandler.Summary).Methods(http.MethodGet)
	manager.HandleFunc("/export", managerHandler.Export).Methods(http.MethodGet)
	manager.HandleFunc("/today-status", managerHandler.TodayStatus).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apimsg.WriteError(w, apimsg.RouteNotFound)
	})

	return r
}
