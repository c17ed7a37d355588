package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"

	jobuc "github.com/kailas-cloud/jobrec/internal/usecase/job"
)

// ListJobs handles GET /jobs. Repeatable company and title query parameters
// filter by case-insensitive substring.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := s.jobs.List(r.Context(), jobuc.Filter{
		Companies: q["company"],
		Titles:    q["title"],
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsToResponse(jobs))
}

// CreateJob handles POST /jobs.
func (s *Server) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	j, err := s.jobs.Create(r.Context(), req.ID, req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToResponse(&j))
}

// EmbedJobs handles POST /jobs/embed.
func (s *Server) EmbedJobs(w http.ResponseWriter, r *http.Request) {
	n, err := s.jobs.EmbedMissing(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, embedJobsResponse{Embedded: n})
}

// GetJob handles GET /jobs/{jobID}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.Context(), gochi.URLParam(r, "jobID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(&j))
}

// UpdateJob handles PUT /jobs/{jobID}. An id in the body is ignored.
func (s *Server) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	j, err := s.jobs.Update(r.Context(), gochi.URLParam(r, "jobID"), req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(&j))
}

// DeleteJob handles DELETE /jobs/{jobID}.
func (s *Server) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.Delete(r.Context(), gochi.URLParam(r, "jobID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
