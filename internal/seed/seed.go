// Package seed loads initial portfolio content from a YAML document.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"portfolio/internal/models"
	"portfolio/internal/service"
)

// Data is a decoded seed document. YAML keys use the same names as the
// JSON API (ctaText, borderColor, techStack ...).
type Data struct {
	Hero       *models.HeroContent
	Skills     []models.Skill
	Experience []models.Experience
	Projects   []models.Project
}

type document struct {
	Hero       map[string]any   `yaml:"hero"`
	Skills     []map[string]any `yaml:"skills"`
	Experience []map[string]any `yaml:"experience"`
	Projects   []map[string]any `yaml:"projects"`
}

func Load(r io.Reader) (*Data, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{}
	if doc.Hero != nil {
		data.Hero = &models.HeroContent{}
		if err := convert(doc.Hero, data.Hero); err != nil {
			return nil, fmt.Errorf("hero: %w", err)
		}
	}
	if err := convert(doc.Skills, &data.Skills); err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	if err := convert(doc.Experience, &data.Experience); err != nil {
		return nil, fmt.Errorf("experience: %w", err)
	}
	if err := convert(doc.Projects, &data.Projects); err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	return data, nil
}

// convert round-trips through JSON so the model's json tags apply.
func convert(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Result counts the records created per collection.
type Result map[string]int

// Apply inserts the seed data into collections that are still empty.
// Populated collections are left untouched.
func Apply(ctx context.Context, svc service.Services, data *Data, log zerolog.Logger) (Result, error) {
	result := Result{}

	var heroes []models.HeroContent
	if data.Hero != nil {
		heroes = append(heroes, *data.Hero)
	}

	var err error
	if result["hero"], err = fill(ctx, svc.Hero.ContentService, heroes, log); err != nil {
		return result, err
	}
	if result["skills"], err = fill(ctx, svc.Skills, data.Skills, log); err != nil {
		return result, err
	}
	if result["experience"], err = fill(ctx, svc.Experience, data.Experience, log); err != nil {
		return result, err
	}
	if result["projects"], err = fill(ctx, svc.Projects, data.Projects, log); err != nil {
		return result, err
	}
	return result, nil
}

func fill[T any](ctx context.Context, svc *service.ContentService[T], items []T, log zerolog.Logger) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	plural := svc.Descriptor().Plural

	n, err := svc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", plural, err)
	}
	if n > 0 {
		log.Info().Str("collection", plural).Int("existing", n).Msg("collection not empty, skipping")
		return 0, nil
	}

	for i, item := range items {
		if _, err := svc.Create(ctx, item); err != nil {
			return i, fmt.Errorf("seed %s[%d]: %w", plural, i, err)
		}
	}
	return len(items), nil
}
