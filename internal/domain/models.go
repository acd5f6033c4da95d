package domain

import "time"

// Kind identifica las colecciones de portafolio que expone el backend.
type Kind string

const (
	KindProjects Kind = "projects"
	KindSkills   Kind = "skills"
)

// Singular devuelve el nombre singular usado en los eventos push.
func (k Kind) Singular() string {
	switch k {
	case KindProjects:
		return "project"
	case KindSkills:
		return "skill"
	}
	return string(k)
}

// Entity es cualquier recurso de portafolio identificable por ID.
// El ID lo asigna el backend; dentro de una lista en memoria es único.
type Entity interface {
	EntityID() string
}

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Technologies []string  `json:"technologies,omitempty"`
	RepoURL      string    `json:"repo_url,omitempty"`
	LiveURL      string    `json:"live_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p Project) EntityID() string { return p.ID }

type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Level     string    `json:"level,omitempty"`
	IconURL   string    `json:"icon_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Skill) EntityID() string { return s.ID }

// Profile describe la presentación del dueño del portafolio según el skin activo.
type Profile struct {
	Skin     string `json:"skin"`
	Name     string `json:"name"`
	Headline string `json:"headline"`
	About    string `json:"about,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
}
