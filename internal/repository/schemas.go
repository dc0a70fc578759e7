package repository

import "portfolio/internal/models"

const byOrder = "sort_order ASC, created_at ASC, id ASC"

var HeroSchema = Schema[models.HeroContent]{
	Descriptor: models.HeroDescriptor,
	Table:      "hero_content",
	Columns: []string{
		"title", "subtitle", "description", "image_url", "cta_text", "cta_link",
		"resume_object_key", "resume_content_type", "resume_file_name", "resume_size",
	},
	OrderBy: "created_at ASC, id ASC",
	Values: func(h *models.HeroContent) []any {
		return []any{
			h.Title, h.Subtitle, h.Description, h.ImageURL, h.CTAText, h.CTALink,
			h.ResumeObjectKey, h.ResumeContentType, h.ResumeFileName, h.ResumeSize,
		}
	},
	Fields: func(h *models.HeroContent) []any {
		return []any{
			&h.Title, &h.Subtitle, &h.Description, &h.ImageURL, &h.CTAText, &h.CTALink,
			&h.ResumeObjectKey, &h.ResumeContentType, &h.ResumeFileName, &h.ResumeSize,
		}
	},
}

var SkillSchema = Schema[models.Skill]{
	Descriptor: models.SkillDescriptor,
	Table:      "skills",
	Columns:    []string{"category", "name", "items", "icon", "sort_order"},
	OrderBy:    byOrder,
	Values: func(s *models.Skill) []any {
		return []any{s.Category, s.Name, nonNil(s.Items), s.Icon, s.Order}
	},
	Fields: func(s *models.Skill) []any {
		return []any{&s.Category, &s.Name, &s.Items, &s.Icon, &s.Order}
	},
}

var ExperienceSchema = Schema[models.Experience]{
	Descriptor: models.ExperienceDescriptor,
	Table:      "experience",
	Columns:    []string{"title", "company", "period", "description", "border_color", "sort_order"},
	OrderBy:    byOrder,
	Values: func(e *models.Experience) []any {
		return []any{e.Title, e.Company, e.Period, e.Description, e.BorderColor, e.Order}
	},
	Fields: func(e *models.Experience) []any {
		return []any{&e.Title, &e.Company, &e.Period, &e.Description, &e.BorderColor, &e.Order}
	},
}

var ProjectSchema = Schema[models.Project]{
	Descriptor: models.ProjectDescriptor,
	Table:      "projects",
	Columns: []string{
		"title", "description", "image_url", "tech_stack", "demo_url", "github_url", "featured", "sort_order",
	},
	OrderBy: byOrder,
	Values: func(p *models.Project) []any {
		return []any{p.Title, p.Description, p.ImageURL, nonNil(p.TechStack), p.DemoURL, p.GithubURL, p.Featured, p.Order}
	},
	Fields: func(p *models.Project) []any {
		return []any{&p.Title, &p.Description, &p.ImageURL, &p.TechStack, &p.DemoURL, &p.GithubURL, &p.Featured, &p.Order}
	},
}

// nonNil keeps NOT NULL text[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
