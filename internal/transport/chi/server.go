package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/domain"
	logpkg "github.com/kailas-cloud/jobrec/internal/logger"
	healthuc "github.com/kailas-cloud/jobrec/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API over the job, user and recommendation services.
type Server struct {
	jobs            JobService
	users           UserService
	recommendations RecommendationService
	health          HealthChecker
	logger          *zap.Logger
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	jobs JobService,
	users UserService,
	recommendations RecommendationService,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		jobs:            jobs,
		users:           users,
		recommendations: recommendations,
		health:          health,
		logger:          logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, codeJobNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrNotInHistory, http.StatusNotFound, codeNotInHistory),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrAlreadyInHistory, http.StatusConflict, codeAlreadyInHistory),
		sentinelHandler(domain.ErrMissingEmbedding, http.StatusConflict, codeRecommendationsNotReady),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrDegenerateVector, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/jobs", func(r gochi.Router) {
		r.Get("/", s.ListJobs)
		r.Post("/", s.CreateJob)
		r.Post("/embed", s.EmbedJobs)
		r.Get("/{jobID}", s.GetJob)
		r.Put("/{jobID}", s.UpdateJob)
		r.Delete("/{jobID}", s.DeleteJob)
	})

	r.Route("/users", func(r gochi.Router) {
		r.Post("/", s.RegisterUser)
		r.Route("/{userID}", func(r gochi.Router) {
			r.Get("/", s.GetUser)
			r.Put("/", s.UpdateUser)
			r.Delete("/", s.DeleteUser)

			r.Get("/history", s.GetHistory)
			r.Post("/history", s.AddToHistory)
			r.Delete("/history", s.ClearHistory)
			r.Delete("/history/{jobID}", s.RemoveFromHistory)

			r.Get("/recommendations", s.GetRecommendations)
			r.Post("/recommendations", s.RecordApplication)
			r.Post("/recommendations/reset", s.ResetRecommendations)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrJobNotFound,
		domain.ErrUserNotFound,
		domain.ErrNotInHistory,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrAlreadyInHistory,
		domain.ErrMissingEmbedding,
		domain.ErrDimensionMismatch,
		domain.ErrDegenerateVector,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports record validation failures with their full message,
// which only names the offending field.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRecord) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
