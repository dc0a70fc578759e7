package memstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/service"
)

func TestCollectionOrdering(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(models.SkillDescriptor)

	for _, s := range []models.Skill{
		{Name: "late", Order: 9},
		{Name: "tie-a", Order: 1},
		{Name: "early", Order: 0},
		{Name: "tie-b", Order: 1},
	} {
		_, err := c.Create(ctx, s)
		require.NoError(t, err)
	}

	items, err := c.List(ctx)
	require.NoError(t, err)

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"early", "tie-a", "tie-b", "late"}, names)

	first, err := c.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "early", first.Name)
}

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(models.ProjectDescriptor)

	created, err := c.Create(ctx, models.Project{Title: "x", Meta: models.Meta{ID: "client-chosen"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	created.Title = "y"
	updated, err := c.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "y", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = c.Update(ctx, "missing", created)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, c.Delete(ctx, created.ID))
	assert.ErrorIs(t, c.Delete(ctx, created.ID), repository.ErrNotFound)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.First(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	require.NoError(t, s.Put(ctx, "resumes/a.pdf", strings.NewReader("pdf"), 3, "application/pdf"))
	require.NoError(t, s.Put(ctx, "other/b", strings.NewReader("b"), 1, "text/plain"))

	infos, err := s.List(ctx, "resumes/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "resumes/a.pdf", infos[0].Key)

	s.Age("resumes/a.pdf", time.Hour)
	infos, _ = s.List(ctx, "resumes/")
	assert.True(t, infos[0].LastModified.Before(time.Now().Add(-59*time.Minute)))

	require.NoError(t, s.Remove(ctx, "resumes/a.pdf"))
	require.NoError(t, s.Remove(ctx, "resumes/a.pdf"))
	_, err = s.Get(ctx, "resumes/a.pdf")
	assert.ErrorIs(t, err, service.ErrBlobNotFound)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	var out []string
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []string{"a"}))
	hit, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	require.NoError(t, c.Invalidate(ctx, "k"))
	assert.False(t, c.Has("k"))
}

func TestCollectionDetachesSlices(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(models.SkillDescriptor)

	items := make([]string, 2, 8)
	items[0], items[1] = "a", "b"
	created, err := c.Create(ctx, models.Skill{Name: "Go", Items: items})
	require.NoError(t, err)
	items[0] = "mutated"

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Items)

	got.Items[0] = "x"
	listed, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, listed[0].Items)

	listed[0].Items[1] = "y"
	again, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again.Items)
}
