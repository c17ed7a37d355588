// Package job defines the job posting aggregate.
package job

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/jobrec/internal/domain"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"embed": true}
)

// MaxDescriptionSize is the maximum description size in bytes.
const MaxDescriptionSize = 65536

// Salary is an optional pay range.
type Salary struct {
	Min      *float64
	Max      *float64
	Currency string
}

// Fields holds the editable attributes of a posting.
type Fields struct {
	Title          string
	Company        string
	Location       string
	EmploymentType string
	Description    string
	Salary         Salary
}

// Job is a job posting (immutable value object).
type Job struct {
	id        string
	fields    Fields
	embedding []float32
}

// New validates and creates a Job without an embedding.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title, location, employment type and
// description are required.
func New(id string, f Fields) (Job, error) {
	if err := ValidateID(id); err != nil {
		return Job{}, err
	}
	if err := f.Validate(); err != nil {
		return Job{}, err
	}
	return Job{id: id, fields: f}, nil
}

// Reconstruct creates a Job without validation (storage hydration).
func Reconstruct(id string, f Fields, embedding []float32) Job {
	return Job{id: id, fields: f, embedding: embedding}
}

// ValidateID checks a job identifier.
func ValidateID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("job ID is required: %w", domain.ErrInvalidRecord)
	case len(id) > 256:
		return fmt.Errorf("job ID too long (max 256): %w", domain.ErrInvalidRecord)
	case !idRegex.MatchString(id):
		return fmt.Errorf("job ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidRecord)
	case reservedIDs[id]:
		return fmt.Errorf("job ID %q is reserved: %w", id, domain.ErrInvalidRecord)
	}
	return nil
}

// Validate checks required fields and the salary range.
func (f Fields) Validate() error {
	required := []struct{ name, value string }{
		{"title", f.Title},
		{"location", f.Location},
		{"employment type", f.EmploymentType},
		{"description", f.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required: %w", r.name, domain.ErrInvalidRecord)
		}
	}
	if len(f.Description) > MaxDescriptionSize {
		return fmt.Errorf("description too large (max %d bytes): %w", MaxDescriptionSize, domain.ErrInvalidRecord)
	}
	s := f.Salary
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return fmt.Errorf("salary min %v exceeds max %v: %w", *s.Min, *s.Max, domain.ErrInvalidRecord)
	}
	return nil
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Fields returns the posting attributes.
func (j *Job) Fields() Fields { return j.fields }

// Embedding returns the posting vector, nil if not embedded yet.
func (j *Job) Embedding() []float32 { return j.embedding }

// HasEmbedding reports whether the posting has been embedded.
func (j *Job) HasEmbedding() bool { return len(j.embedding) > 0 }

// WithEmbedding returns a copy carrying the given vector.
func (j *Job) WithEmbedding(v []float32) Job {
	return Job{id: j.id, fields: j.fields, embedding: v}
}

// Text renders the posting as the single line that gets embedded.
func (j *Job) Text() string {
	f := j.fields
	salary := "Not specified"
	if f.Salary.Min != nil && f.Salary.Max != nil && f.Salary.Currency != "" {
		salary = fmt.Sprintf("%s - %s %s",
			formatAmount(*f.Salary.Min), formatAmount(*f.Salary.Max), f.Salary.Currency)
	}
	parts := []string{
		"Title: " + f.Title,
		"Company: " + f.Company,
		"Location: " + f.Location,
		"Description: " + f.Description,
		"Salary: " + salary,
		"Employment Type: " + f.EmploymentType,
	}
	return strings.Join(parts, " ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
