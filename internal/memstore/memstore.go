package memstore

import (
	"portfolio/internal/models"
	"portfolio/internal/service"
)

// NewBackends returns empty in-memory stores for every collection, a blob
// store and a cache.
func NewBackends() service.Backends {
	return service.Backends{
		Heroes:     NewCollection(models.HeroDescriptor),
		Skills:     NewCollection(models.SkillDescriptor),
		Experience: NewCollection(models.ExperienceDescriptor),
		Projects:   NewCollection(models.ProjectDescriptor),
		Resumes:    NewBlobStore(),
		Cache:      NewCache(),
	}
}
