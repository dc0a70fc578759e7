package models

import "time"

// Meta is the server-owned part of every content record.
type Meta struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HeroContent struct {
	Meta
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle" binding:"required"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CTAText     string `json:"ctaText" binding:"required"`
	CTALink     string `json:"ctaLink" binding:"required"`

	ResumeObjectKey   string `json:"-"`
	ResumeContentType string `json:"resumeContentType,omitempty"`
	ResumeFileName    string `json:"resumeFileName,omitempty"`
	ResumeSize        int64  `json:"resumeSize,omitempty"`
}

func (h HeroContent) HasResume() bool {
	return h.ResumeObjectKey != ""
}

// ClearResume unsets every attachment field.
func (h *HeroContent) ClearResume() {
	h.ResumeObjectKey = ""
	h.ResumeContentType = ""
	h.ResumeFileName = ""
	h.ResumeSize = 0
}

type Skill struct {
	Meta
	Category string   `json:"category" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Items    []string `json:"items" binding:"required"`
	Icon     string   `json:"icon" binding:"required"`
	Order    int      `json:"order"`
}

type Experience struct {
	Meta
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Period      string `json:"period" binding:"required"`
	Description string `json:"description,omitempty"`
	BorderColor string `json:"borderColor" binding:"required"`
	Order       int    `json:"order"`
}

type Project struct {
	Meta
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	TechStack   []string `json:"techStack" binding:"required"`
	DemoURL     string   `json:"demoUrl,omitempty"`
	GithubURL   string   `json:"githubUrl,omitempty"`
	Featured    bool     `json:"featured"`
	Order       int      `json:"order"`
}
