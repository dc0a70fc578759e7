// Package tasks executes background work delivered through the task stream.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TypeResumeGC  = "resume.gc"
	TypeCacheWarm = "cache.warm"
)

type TaskPayload struct {
	Type string `json:"type"`
}

// ResumeCollector removes résumé objects no hero references.
type ResumeCollector interface {
	CollectOrphanResumes(ctx context.Context, minAge time.Duration) (int, error)
}

// CacheWarmer reloads the public list caches.
type CacheWarmer interface {
	WarmCaches(ctx context.Context) error
}

type Processor struct {
	resumes      ResumeCollector
	caches       CacheWarmer
	resumeMinAge time.Duration
	logger       zerolog.Logger
}

func NewProcessor(resumes ResumeCollector, caches CacheWarmer, resumeMinAge time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		resumes:      resumes,
		caches:       caches,
		resumeMinAge: resumeMinAge,
		logger:       logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return p.Run(ctx, payload.Type)
}

// Run executes one task by type. Unknown types are logged and dropped.
func (p *Processor) Run(ctx context.Context, taskType string) error {
	switch taskType {
	case TypeResumeGC:
		return p.handleResumeGC(ctx)
	case TypeCacheWarm:
		return p.handleCacheWarm(ctx)
	default:
		p.logger.Warn().Str("type", taskType).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handleResumeGC(ctx context.Context) error {
	removed, err := p.resumes.CollectOrphanResumes(ctx, p.resumeMinAge)
	if err != nil {
		return fmt.Errorf("resume gc: %w", err)
	}
	p.logger.Info().Int("removed", removed).Msg("orphan resumes collected")
	return nil
}

func (p *Processor) handleCacheWarm(ctx context.Context) error {
	if err := p.caches.WarmCaches(ctx); err != nil {
		return fmt.Errorf("cache warm: %w", err)
	}
	p.logger.Debug().Msg("content caches warmed")
	return nil
}
