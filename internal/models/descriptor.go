package models

import "slices"

// Descriptor names a record type and exposes the accessors shared by every
// store implementation. Order is nil for types without a sort field; Clone is
// nil for types without reference fields.
type Descriptor[T any] struct {
	Name   string
	Plural string
	Meta   func(*T) *Meta
	Order  func(*T) int
	Clone  func(*T)
}

// Copy returns item with its slices detached from the original.
func (d Descriptor[T]) Copy(item T) T {
	if d.Clone != nil {
		d.Clone(&item)
	}
	return item
}

// SortKey returns the record's display order, or 0 when the type has none.
func (d Descriptor[T]) SortKey(item *T) int {
	if d.Order == nil {
		return 0
	}
	return d.Order(item)
}

var (
	HeroDescriptor = Descriptor[HeroContent]{
		Name:   "Hero content",
		Plural: "heroes",
		Meta:   func(h *HeroContent) *Meta { return &h.Meta },
	}
	SkillDescriptor = Descriptor[Skill]{
		Name:   "Skill",
		Plural: "skills",
		Meta:   func(s *Skill) *Meta { return &s.Meta },
		Order:  func(s *Skill) int { return s.Order },
		Clone:  func(s *Skill) { s.Items = slices.Clone(s.Items) },
	}
	ExperienceDescriptor = Descriptor[Experience]{
		Name:   "Experience",
		Plural: "experience",
		Meta:   func(e *Experience) *Meta { return &e.Meta },
		Order:  func(e *Experience) int { return e.Order },
	}
	ProjectDescriptor = Descriptor[Project]{
		Name:   "Project",
		Plural: "projects",
		Meta:   func(p *Project) *Meta { return &p.Meta },
		Order:  func(p *Project) int { return p.Order },
		Clone:  func(p *Project) { p.TechStack = slices.Clone(p.TechStack) },
	}
)
