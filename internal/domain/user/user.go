// Package user defines the user aggregate: profile, embedding and application history.
package user

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/kailas-cloud/jobrec/internal/domain"
)

// Default values for optional profile fields.
const (
	DefaultGender     = "prefer not to say"
	DefaultDisability = "None"
)

// Education is one education entry of a profile.
type Education struct {
	School      string
	Degree      string
	Grade       string
	StartDate   string
	EndDate     string
	Description string
}

// Experience is one work experience entry of a profile.
type Experience struct {
	Company     string
	Position    string
	StartDate   string
	EndDate     string
	Description string
}

// Profile holds the self-described attributes of a user.
type Profile struct {
	Name       string
	Email      string
	Phone      string
	Location   string
	Summary    string
	Skills     string
	Role       string
	Education  []Education
	Experience []Experience
	Gender     string
	Disability string
}

// NewProfile validates a profile and fills optional defaults.
func NewProfile(p Profile) (Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Profile{}, fmt.Errorf("name is required: %w", domain.ErrInvalidRecord)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return Profile{}, fmt.Errorf("invalid email %q: %w", p.Email, domain.ErrInvalidRecord)
	}
	if p.Gender == "" {
		p.Gender = DefaultGender
	}
	if p.Disability == "" {
		p.Disability = DefaultDisability
	}
	return p, nil
}

// Text renders the profile as the single line that gets embedded.
func (p Profile) Text() string {
	education := "None"
	if len(p.Education) > 0 {
		items := make([]string, len(p.Education))
		for i, e := range p.Education {
			items[i] = e.Degree + " from " + e.School
		}
		education = strings.Join(items, ", ")
	}
	experience := "None"
	if len(p.Experience) > 0 {
		items := make([]string, len(p.Experience))
		for i, e := range p.Experience {
			items[i] = e.Position + " at " + e.Company
		}
		experience = strings.Join(items, ", ")
	}
	parts := []string{
		"Name: " + p.Name,
		"Email: " + p.Email,
		"Phone: " + p.Phone,
		"Location: " + p.Location,
		"Summary: " + p.Summary,
		"Skills: " + p.Skills,
		"Education: " + education,
		"Experience: " + experience,
		"Disability: " + orNone(p.Disability),
		"Gender: " + orNone(p.Gender),
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// User is the user aggregate. The prior lives in its own store and is not part of it.
type User struct {
	id        string
	profile   Profile
	embedding []float32
	history   []string
}

// New creates a user with an empty history.
func New(id string, profile Profile, embedding []float32) User {
	return User{id: id, profile: profile, embedding: embedding}
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(id string, profile Profile, embedding []float32, history []string) User {
	return User{id: id, profile: profile, embedding: embedding, history: history}
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// Profile returns the profile attributes.
func (u *User) Profile() Profile { return u.profile }

// Embedding returns the profile vector, nil if not embedded.
func (u *User) Embedding() []float32 { return u.embedding }

// HasEmbedding reports whether the profile has been embedded.
func (u *User) HasEmbedding() bool { return len(u.embedding) > 0 }

// History returns the job ids the user applied to, oldest first.
func (u *User) History() []string { return u.history }

// Applied reports whether jobID is in the history.
func (u *User) Applied(jobID string) bool { return slices.Contains(u.history, jobID) }

// WithProfile returns a copy with a new profile and embedding.
func (u *User) WithProfile(p Profile, embedding []float32) User {
	return User{id: u.id, profile: p, embedding: embedding, history: u.history}
}
