// Package api exposes the account service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/auth"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/logging"

	"github.com/gorilla/mux"
)

// Server routes HTTP requests to the account service.
type Server struct {
	svc  *account.Service
	auth *auth.Authenticator
	log  logging.Logger
	now  func() time.Time
}

// NewServer returns a Server. authn guards every mutating route.
func NewServer(svc *account.Service, authn *auth.Authenticator, log logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		svc:  svc,
		auth: authn,
		log:  log.WithField(logging.FieldComponent, "api"),
		now:  time.Now,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	// Public routes
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/status", s.authStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/account", s.getAccount).Methods(http.MethodGet)
	r.HandleFunc("/api/calculate-goal", s.calculateGoal).Methods(http.MethodPost)

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/settings/initial", s.updateInitialSettings).Methods(http.MethodPost)
	protected.HandleFunc("/settings/current", s.updateCurrentSettings).Methods(http.MethodPost)
	protected.HandleFunc("/transaction", s.addTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transaction/index/{index:[0-9]+}", s.deleteTransactionAt).Methods(http.MethodDelete)
	protected.HandleFunc("/transaction/{id}", s.deleteTransaction).Methods(http.MethodDelete)
	protected.HandleFunc("/recalculate", s.recalculate).Methods(http.MethodPost)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("Handled request",
			logging.F(logging.FieldMethod, r.Method),
			logging.F(logging.FieldPath, r.URL.Path),
			logging.F(logging.FieldStatus, rec.status),
			logging.F(logging.FieldDuration, s.now().Sub(start).Milliseconds()))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if _, err := s.auth.VerifyToken(auth.BearerToken(r.Header.Get("Authorization"))); err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// fail maps a service error to its HTTP status.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case bankerror.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case bankerror.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case bankerror.IsPersistence(err):
		s.log.WithError(err).Error("Persistence failure")
		writeError(w, http.StatusInternalServerError, "Failed to access account data")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		s.log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
