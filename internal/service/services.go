package service

import (
	"context"

	"github.com/rs/zerolog"

	"portfolio/internal/config"
	"portfolio/internal/models"
)

// Services bundles the application services built on one set of Backends.
type Services struct {
	Auth       *AuthService
	Hero       *HeroService
	Skills     *ContentService[models.Skill]
	Experience *ContentService[models.Experience]
	Projects   *ContentService[models.Project]
}

func NewServices(b Backends, cfg *config.AppConfig, log zerolog.Logger) Services {
	hero := NewContentService(models.HeroDescriptor, b.Heroes, b.Cache, log)
	return Services{
		Auth:       NewAuthService(cfg.Security, log),
		Hero:       NewHeroService(hero, b.Heroes, b.Resumes, cfg.Storage.MaxResumeBytes, log),
		Skills:     NewContentService(models.SkillDescriptor, b.Skills, b.Cache, log),
		Experience: NewContentService(models.ExperienceDescriptor, b.Experience, b.Cache, log),
		Projects:   NewContentService(models.ProjectDescriptor, b.Projects, b.Cache, log),
	}
}

// WarmCaches reloads every public list into the cache.
func (s Services) WarmCaches(ctx context.Context) error {
	warmers := []func(context.Context) error{
		s.Hero.Warm,
		s.Skills.Warm,
		s.Experience.Warm,
		s.Projects.Warm,
	}
	for _, warm := range warmers {
		if err := warm(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Counts returns the number of records per collection.
func (s Services) Counts(ctx context.Context) (map[string]int, error) {
	counters := map[string]func(context.Context) (int, error){
		"hero":       s.Hero.Count,
		"skills":     s.Skills.Count,
		"experience": s.Experience.Count,
		"projects":   s.Projects.Count,
	}
	counts := make(map[string]int, len(counters))
	for name, count := range counters {
		n, err := count(ctx)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}
