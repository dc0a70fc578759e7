// Package memstore holds in-process implementations of the content, blob and
// cache stores. They back the "memory" drivers and the package tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"portfolio/internal/ids"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// Collection keeps records in insertion order; List sorts a copy by the
// descriptor's order, which keeps ties in creation order. Records are deep
// copied on the way in and out so callers never share slices with the store.
type Collection[T any] struct {
	mu    sync.RWMutex
	desc  models.Descriptor[T]
	items []T
	now   func() time.Time
}

func NewCollection[T any](desc models.Descriptor[T]) *Collection[T] {
	return &Collection[T]{desc: desc, now: time.Now}
}

func (c *Collection[T]) indexOf(id string) int {
	for i := range c.items {
		if c.desc.Meta(&c.items[i]).ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.desc.Copy(item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.desc.SortKey(&out[i]) < c.desc.SortKey(&out[j])
	})
	return out, nil
}

func (c *Collection[T]) First(ctx context.Context) (T, error) {
	items, _ := c.List(ctx)
	if len(items) == 0 {
		var zero T
		return zero, repository.ErrNotFound
	}
	return items[0], nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.desc.Copy(c.items[i]), nil
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (c *Collection[T]) Create(_ context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	*c.desc.Meta(&item) = models.Meta{ID: ids.New(), CreatedAt: now, UpdatedAt: now}
	c.items = append(c.items, c.desc.Copy(item))
	return item, nil
}

func (c *Collection[T]) Update(_ context.Context, id string, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, repository.ErrNotFound
	}

	meta := *c.desc.Meta(&c.items[i])
	meta.UpdatedAt = c.now().UTC()
	*c.desc.Meta(&item) = meta
	c.items[i] = c.desc.Copy(item)
	return item, nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Collection[T]) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items), nil
}
