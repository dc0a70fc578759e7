package service

import (
	"context"
	"io"
	"time"

	"portfolio/internal/models"
)

// ContentStore persists one content collection. Implementations return
// repository.ErrNotFound for unknown identities.
type ContentStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	First(ctx context.Context) (T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ContentCache holds serialized public list responses.
type ContentCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

type BlobInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BlobStore keeps résumé attachments. Get returns ErrBlobNotFound for
// unknown keys.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}

// Backends is the set of stores the services run on.
type Backends struct {
	Heroes     ContentStore[models.HeroContent]
	Skills     ContentStore[models.Skill]
	Experience ContentStore[models.Experience]
	Projects   ContentStore[models.Project]
	Resumes    BlobStore
	Cache      ContentCache
}
