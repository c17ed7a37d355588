package chi

import (
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
)

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req profileDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), req.profile())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(&u))
}

// GetUser handles GET /users/{userID}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), gochi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(&u))
}

// UpdateUser handles PUT /users/{userID}.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req profileDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), gochi.URLParam(r, "userID"), req.profile())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(&u))
}

// DeleteUser handles DELETE /users/{userID}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), gochi.URLParam(r, "userID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory handles GET /users/{userID}/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.users.History(r.Context(), gochi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsToResponse(jobs))
}

// AddToHistory handles POST /users/{userID}/history.
func (s *Server) AddToHistory(w http.ResponseWriter, r *http.Request) {
	var req jobIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.JobID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "job_id is required")
		return
	}

	n, err := s.users.AddToHistory(r.Context(), gochi.URLParam(r, "userID"), req.JobID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyChangeResponse{JobID: req.JobID, HistoryCount: n})
}

// RemoveFromHistory handles DELETE /users/{userID}/history/{jobID}.
func (s *Server) RemoveFromHistory(w http.ResponseWriter, r *http.Request) {
	jobID := gochi.URLParam(r, "jobID")
	n, err := s.users.RemoveFromHistory(r.Context(), gochi.URLParam(r, "userID"), jobID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyChangeResponse{JobID: jobID, HistoryCount: n})
}

// ClearHistory handles DELETE /users/{userID}/history.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.users.ClearHistory(r.Context(), gochi.URLParam(r, "userID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRecommendations handles GET /users/{userID}/recommendations?limit=N.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := s.recommendations.Recommend(r.Context(), gochi.URLParam(r, "userID"), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]recommendationItem, len(recs))
	for i := range recs {
		items[i] = recommendationItem{jobResponse: jobToResponse(&recs[i].Job), Score: recs[i].Score}
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Items: items})
}

// RecordApplication handles POST /users/{userID}/recommendations: the user
// applied to job_id.
func (s *Server) RecordApplication(w http.ResponseWriter, r *http.Request) {
	var req jobIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.JobID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "job_id is required")
		return
	}

	app, err := s.recommendations.Apply(r.Context(), gochi.URLParam(r, "userID"), req.JobID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationResponse{
		JobID:         app.JobID,
		HistoryAdded:  app.HistoryAdded,
		Reinitialized: app.Reinitialized,
	})
}

// ResetRecommendations handles POST /users/{userID}/recommendations/reset.
func (s *Server) ResetRecommendations(w http.ResponseWriter, r *http.Request) {
	if err := s.recommendations.ResetPrior(r.Context(), gochi.URLParam(r, "userID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
