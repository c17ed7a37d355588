package chi

import (
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeUnauthorized            errorCode = "unauthorized"
	codeValidationFailed        errorCode = "validation_failed"
	codeNotFound                errorCode = "not_found"
	codeJobNotFound             errorCode = "job_not_found"
	codeUserNotFound            errorCode = "user_not_found"
	codeAlreadyExists           errorCode = "already_exists"
	codeAlreadyInHistory        errorCode = "already_in_history"
	codeNotInHistory            errorCode = "not_in_history"
	codeVectorDimMismatch       errorCode = "vector_dim_mismatch"
	codeRecommendationsNotReady errorCode = "recommendations_not_ready"
	codeEmbeddingProviderError  errorCode = "embedding_provider_error"
	codeInternalError           errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type jobRequest struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	Description    string   `json:"description"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	Currency       string   `json:"currency,omitempty"`
}

func (r *jobRequest) fields() domjob.Fields {
	return domjob.Fields{
		Title:          r.Title,
		Company:        r.Company,
		Location:       r.Location,
		EmploymentType: r.EmploymentType,
		Description:    r.Description,
		Salary: domjob.Salary{
			Min:      r.SalaryMin,
			Max:      r.SalaryMax,
			Currency: r.Currency,
		},
	}
}

type jobResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	Description    string   `json:"description"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	Embedded       bool     `json:"embedded"`
}

func jobToResponse(j *domjob.Job) jobResponse {
	f := j.Fields()
	return jobResponse{
		ID:             j.ID(),
		Title:          f.Title,
		Company:        f.Company,
		Location:       f.Location,
		EmploymentType: f.EmploymentType,
		Description:    f.Description,
		SalaryMin:      f.Salary.Min,
		SalaryMax:      f.Salary.Max,
		Currency:       f.Salary.Currency,
		Embedded:       j.HasEmbedding(),
	}
}

func jobsToResponse(jobs []domjob.Job) []jobResponse {
	out := make([]jobResponse, len(jobs))
	for i := range jobs {
		out[i] = jobToResponse(&jobs[i])
	}
	return out
}

type educationDTO struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Grade       string `json:"grade,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type experienceDTO struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type profileDTO struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Location   string          `json:"location,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Skills     string          `json:"skills,omitempty"`
	Role       string          `json:"role,omitempty"`
	Education  []educationDTO  `json:"education"`
	Experience []experienceDTO `json:"experience"`
	Gender     string          `json:"gender,omitempty"`
	Disability string          `json:"disability,omitempty"`
}

func (p *profileDTO) profile() domuser.Profile {
	out := domuser.Profile{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Location:   p.Location,
		Summary:    p.Summary,
		Skills:     p.Skills,
		Role:       p.Role,
		Gender:     p.Gender,
		Disability: p.Disability,
	}
	for _, e := range p.Education {
		out.Education = append(out.Education, domuser.Education(e))
	}
	for _, e := range p.Experience {
		out.Experience = append(out.Experience, domuser.Experience(e))
	}
	return out
}

func profileToDTO(p domuser.Profile) profileDTO {
	out := profileDTO{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Location:   p.Location,
		Summary:    p.Summary,
		Skills:     p.Skills,
		Role:       p.Role,
		Education:  make([]educationDTO, len(p.Education)),
		Experience: make([]experienceDTO, len(p.Experience)),
		Gender:     p.Gender,
		Disability: p.Disability,
	}
	for i, e := range p.Education {
		out.Education[i] = educationDTO(e)
	}
	for i, e := range p.Experience {
		out.Experience[i] = experienceDTO(e)
	}
	return out
}

type userResponse struct {
	ID string `json:"id"`
	profileDTO
	History []string `json:"history"`
}

func userToResponse(u *domuser.User) userResponse {
	history := u.History()
	if history == nil {
		history = []string{}
	}
	return userResponse{ID: u.ID(), profileDTO: profileToDTO(u.Profile()), History: history}
}

type jobIDRequest struct {
	JobID string `json:"job_id"`
}

type historyChangeResponse struct {
	JobID        string `json:"job_id"`
	HistoryCount int    `json:"history_count"`
}

type recommendationItem struct {
	jobResponse
	Score float64 `json:"score"`
}

type recommendationsResponse struct {
	Items []recommendationItem `json:"items"`
}

type applicationResponse struct {
	JobID         string `json:"job_id"`
	HistoryAdded  bool   `json:"history_added"`
	Reinitialized bool   `json:"prior_reinitialized"`
}

type embedJobsResponse struct {
	Embedded int `json:"embedded"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
