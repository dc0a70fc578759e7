package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"portfolio/internal/ids"
	"portfolio/internal/media/sniffer"
	"portfolio/internal/models"
)

const resumePrefix = "resumes/"

// ResumeUpload is a résumé file received with a hero form submission.
type ResumeUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// ResumeFile is an open résumé ready to be streamed to a visitor.
type ResumeFile struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
	Size        int64
}

// HeroChange describes a hero update. Apply overwrites text fields; at most
// one of Upload and RemoveResume takes effect, RemoveResume winning.
type HeroChange struct {
	Apply        func(*models.HeroContent) error
	Upload       *ResumeUpload
	RemoveResume bool
}

// HeroService manages the hero banner and its optional résumé attachment.
// Several hero records may exist; the oldest one is the active banner.
type HeroService struct {
	*ContentService[models.HeroContent]
	store    ContentStore[models.HeroContent]
	blobs    BlobStore
	maxBytes int64
	log      zerolog.Logger
}

func NewHeroService(content *ContentService[models.HeroContent], store ContentStore[models.HeroContent], blobs BlobStore, maxBytes int64, log zerolog.Logger) *HeroService {
	return &HeroService{
		ContentService: content,
		store:          store,
		blobs:          blobs,
		maxBytes:       maxBytes,
		log:            log.With().Str("collection", "heroes").Logger(),
	}
}

// CreateWithResume stores the upload (when given) and creates the record.
// The object is removed again if the record cannot be created.
func (s *HeroService) CreateWithResume(ctx context.Context, hero models.HeroContent, upload *ResumeUpload) (models.HeroContent, error) {
	hero.ClearResume()
	if upload != nil {
		if err := s.storeResume(ctx, &hero, *upload); err != nil {
			return models.HeroContent{}, err
		}
	}

	created, err := s.Create(ctx, hero)
	if err != nil {
		s.removeObject(ctx, hero.ResumeObjectKey)
		return models.HeroContent{}, err
	}
	return created, nil
}

// UpdateWithResume applies change to the record identified by id. A replaced
// or removed attachment is deleted from the blob store after the record is
// saved.
func (s *HeroService) UpdateWithResume(ctx context.Context, id string, change HeroChange) (models.HeroContent, error) {
	if id == "" {
		return models.HeroContent{}, ErrMissingID
	}

	var staged models.HeroContent
	if change.Upload != nil && !change.RemoveResume {
		if err := s.storeResume(ctx, &staged, *change.Upload); err != nil {
			return models.HeroContent{}, err
		}
	}

	var previousKey string
	updated, err := s.Update(ctx, id, func(hero *models.HeroContent) error {
		previousKey = hero.ResumeObjectKey
		resume := *hero
		if change.Apply != nil {
			if err := change.Apply(hero); err != nil {
				return err
			}
		}
		copyResume(hero, resume)

		switch {
		case change.RemoveResume:
			hero.ClearResume()
		case staged.HasResume():
			copyResume(hero, staged)
		}
		return nil
	})
	if err != nil {
		s.removeObject(ctx, staged.ResumeObjectKey)
		return models.HeroContent{}, err
	}

	if previousKey != "" && previousKey != updated.ResumeObjectKey {
		s.removeObject(ctx, previousKey)
	}
	return updated, nil
}

// DeleteWithResume deletes the record and its attachment.
func (s *HeroService) DeleteWithResume(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	hero, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObject(ctx, hero.ResumeObjectKey)
	return nil
}

// OpenResume opens the active hero's attachment.
func (s *HeroService) OpenResume(ctx context.Context) (ResumeFile, error) {
	hero, err := s.store.First(ctx)
	if IsNotFound(err) {
		return ResumeFile{}, ErrResumeNotFound
	}
	if err != nil {
		return ResumeFile{}, err
	}
	if !hero.HasResume() {
		return ResumeFile{}, ErrResumeNotFound
	}

	body, err := s.blobs.Get(ctx, hero.ResumeObjectKey)
	if errors.Is(err, ErrBlobNotFound) {
		s.log.Warn().Str("key", hero.ResumeObjectKey).Msg("resume object missing")
		return ResumeFile{}, ErrResumeNotFound
	}
	if err != nil {
		return ResumeFile{}, fmt.Errorf("open resume: %w", err)
	}

	contentType := hero.ResumeContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	fileName := hero.ResumeFileName
	if fileName == "" {
		fileName = "resume.pdf"
	}

	return ResumeFile{
		Body:        body,
		ContentType: contentType,
		FileName:    fileName,
		Size:        hero.ResumeSize,
	}, nil
}

// CollectOrphanResumes deletes stored résumés no hero record references.
// Objects younger than minAge are kept so in-flight uploads survive.
func (s *HeroService) CollectOrphanResumes(ctx context.Context, minAge time.Duration) (int, error) {
	heroes, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(heroes))
	for _, hero := range heroes {
		if hero.HasResume() {
			referenced[hero.ResumeObjectKey] = struct{}{}
		}
	}

	objects, err := s.blobs.List(ctx, resumePrefix)
	if err != nil {
		return 0, fmt.Errorf("list resumes: %w", err)
	}

	cutoff := time.Now().Add(-minAge)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.blobs.Remove(ctx, obj.Key); err != nil {
			s.log.Error().Err(err).Str("key", obj.Key).Msg("remove orphan resume failed")
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *HeroService) storeResume(ctx context.Context, hero *models.HeroContent, upload ResumeUpload) error {
	if upload.Reader == nil {
		return fmt.Errorf("%w: resume payload missing", ErrValidation)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return fmt.Errorf("%w: resume exceeds %d bytes", ErrValidation, s.maxBytes)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: resume is empty", ErrValidation)
	}

	contentType := sniffer.DetectDocument(data, upload.ContentType)
	fileName := cleanFileName(upload.FileName)
	key := resumePrefix + ids.New() + path.Ext(fileName)

	if err := s.blobs.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return fmt.Errorf("store resume: %w", err)
	}

	hero.ResumeObjectKey = key
	hero.ResumeContentType = contentType
	hero.ResumeFileName = fileName
	hero.ResumeSize = int64(len(data))
	return nil
}

func (s *HeroService) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Remove(ctx, key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("remove resume object failed")
	}
}

func copyResume(dst *models.HeroContent, src models.HeroContent) {
	dst.ResumeObjectKey = src.ResumeObjectKey
	dst.ResumeContentType = src.ResumeContentType
	dst.ResumeFileName = src.ResumeFileName
	dst.ResumeSize = src.ResumeSize
}

// cleanFileName keeps the base name and drops characters that would break a
// Content-Disposition header.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '"', r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "resume.pdf"
	}
	return name
}
