package user

import (
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
)

// userDoc is the RedisJSON document stored under jobrec:user:{id}.
// History is always an array so JSON.ARRAPPEND can extend it.
type userDoc struct {
	ID        string     `json:"id"`
	Profile   profileDoc `json:"profile"`
	Embedding []float32  `json:"embedding,omitempty"`
	History   []string   `json:"history"`
}

type profileDoc struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Location   string          `json:"location,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Skills     string          `json:"skills,omitempty"`
	Role       string          `json:"role,omitempty"`
	Education  []educationDoc  `json:"education,omitempty"`
	Experience []experienceDoc `json:"experience,omitempty"`
	Gender     string          `json:"gender,omitempty"`
	Disability string          `json:"disability,omitempty"`
}

type educationDoc struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Grade       string `json:"grade,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type experienceDoc struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

func toDoc(u *domuser.User) userDoc {
	history := u.History()
	if history == nil {
		history = []string{}
	}
	return userDoc{
		ID:        u.ID(),
		Profile:   toProfileDoc(u.Profile()),
		Embedding: u.Embedding(),
		History:   history,
	}
}

func toProfileDoc(p domuser.Profile) profileDoc {
	d := profileDoc{
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
		d.Education = append(d.Education, educationDoc(e))
	}
	for _, e := range p.Experience {
		d.Experience = append(d.Experience, experienceDoc(e))
	}
	return d
}

func fromDoc(id string, d userDoc) domuser.User {
	if d.ID != "" {
		id = d.ID
	}
	p := domuser.Profile{
		Name:       d.Profile.Name,
		Email:      d.Profile.Email,
		Phone:      d.Profile.Phone,
		Location:   d.Profile.Location,
		Summary:    d.Profile.Summary,
		Skills:     d.Profile.Skills,
		Role:       d.Profile.Role,
		Gender:     d.Profile.Gender,
		Disability: d.Profile.Disability,
	}
	for _, e := range d.Profile.Education {
		p.Education = append(p.Education, domuser.Education(e))
	}
	for _, e := range d.Profile.Experience {
		p.Experience = append(p.Experience, domuser.Experience(e))
	}
	return domuser.Reconstruct(id, p, d.Embedding, d.History)
}
