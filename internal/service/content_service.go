package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// ContentService implements the list/create/update/delete contract shared by
// every content collection.
type ContentService[T any] struct {
	desc  models.Descriptor[T]
	store ContentStore[T]
	cache ContentCache
	log   zerolog.Logger

	// cacheMu orders cache fills against invalidations; generation counts
	// writes so a fill never stores a list read before the latest write.
	cacheMu    sync.Mutex
	generation uint64
}

func NewContentService[T any](desc models.Descriptor[T], store ContentStore[T], cache ContentCache, log zerolog.Logger) *ContentService[T] {
	return &ContentService[T]{
		desc:  desc,
		store: store,
		cache: cache,
		log:   log.With().Str("collection", desc.Plural).Logger(),
	}
}

func (s *ContentService[T]) Descriptor() models.Descriptor[T] {
	return s.desc
}

func (s *ContentService[T]) cacheKey() string {
	return "content:" + s.desc.Plural
}

// List returns every record ordered for display. Cache failures are logged
// and fall through to the store.
func (s *ContentService[T]) List(ctx context.Context) ([]T, error) {
	if s.cache != nil {
		var cached []T
		hit, err := s.cache.Get(ctx, s.cacheKey(), &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	gen := s.currentGeneration()
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.fill(ctx, gen, items); err != nil {
			s.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return items, nil
}

// First returns the record that sorts first, or repository.ErrNotFound.
func (s *ContentService[T]) First(ctx context.Context) (T, error) {
	items, err := s.List(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, repository.ErrNotFound
	}
	return items[0], nil
}

func (s *ContentService[T]) Get(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, ErrMissingID
	}
	return s.store.Get(ctx, id)
}

func (s *ContentService[T]) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *ContentService[T]) Create(ctx context.Context, item T) (T, error) {
	*s.desc.Meta(&item) = models.Meta{}
	if err := validate(&item); err != nil {
		return item, err
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		return created, err
	}
	s.invalidate(ctx)

	s.log.Info().Str("id", s.desc.Meta(&created).ID).Msg("record created")
	return created, nil
}

// Update loads the stored record, lets apply overwrite the fields present in
// the request, re-validates the merged record and persists it.
func (s *ContentService[T]) Update(ctx context.Context, id string, apply func(*T) error) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrMissingID
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	meta := *s.desc.Meta(&current)
	if err := apply(&current); err != nil {
		return zero, err
	}
	*s.desc.Meta(&current) = meta

	if err := validate(&current); err != nil {
		return zero, err
	}

	updated, err := s.store.Update(ctx, id, current)
	if err != nil {
		return zero, err
	}
	s.invalidate(ctx)

	s.log.Info().Str("id", id).Msg("record updated")
	return updated, nil
}

func (s *ContentService[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.log.Info().Str("id", id).Msg("record deleted")
	return nil
}

// Warm reloads the collection from the store into the cache.
func (s *ContentService[T]) Warm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	gen := s.currentGeneration()
	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	return s.fill(ctx, gen, items)
}

func (s *ContentService[T]) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// fill caches items read at generation gen, unless a write happened since.
func (s *ContentService[T]) fill(ctx context.Context, gen uint64, items []T) error {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if gen != s.generation {
		return nil
	}
	return s.cache.Set(ctx, s.cacheKey(), items)
}

func (s *ContentService[T]) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if err := s.cache.Invalidate(ctx, s.cacheKey()); err != nil {
		s.log.Error().Err(err).Msg("cache invalidation failed")
	}
}

func validate(item any) error {
	if err := binding.Validator.ValidateStruct(item); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// IsNotFound reports whether err means the addressed record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
