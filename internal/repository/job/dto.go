package job

import (
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
)

// jobDoc is the RedisJSON document stored under jobrec:job:{id}.
type jobDoc struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company,omitempty"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	Description    string     `json:"description"`
	Salary         *salaryDoc `json:"salary,omitempty"`
	Embedding      []float32  `json:"embedding,omitempty"`
}

type salaryDoc struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

func toDoc(j *domjob.Job) jobDoc {
	f := j.Fields()
	d := jobDoc{
		ID:             j.ID(),
		Title:          f.Title,
		Company:        f.Company,
		Location:       f.Location,
		EmploymentType: f.EmploymentType,
		Description:    f.Description,
		Embedding:      j.Embedding(),
	}
	if f.Salary.Min != nil || f.Salary.Max != nil || f.Salary.Currency != "" {
		d.Salary = &salaryDoc{Min: f.Salary.Min, Max: f.Salary.Max, Currency: f.Salary.Currency}
	}
	return d
}

func fromDoc(id string, d jobDoc) domjob.Job {
	if d.ID != "" {
		id = d.ID
	}
	f := domjob.Fields{
		Title:          d.Title,
		Company:        d.Company,
		Location:       d.Location,
		EmploymentType: d.EmploymentType,
		Description:    d.Description,
	}
	if d.Salary != nil {
		f.Salary = domjob.Salary{Min: d.Salary.Min, Max: d.Salary.Max, Currency: d.Salary.Currency}
	}
	return domjob.Reconstruct(id, f, d.Embedding)
}
