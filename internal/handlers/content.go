package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/internal/metrics"
	"portfolio/internal/service"
)

// contentHandler serves the list/create/update/delete endpoints of one
// collection.
type contentHandler[T any] struct {
	svc     *service.ContentService[T]
	metrics *metrics.Metrics
	name    string
	plural  string
	log     zerolog.Logger
}

func newContentHandler[T any](svc *service.ContentService[T], m *metrics.Metrics, log zerolog.Logger) contentHandler[T] {
	desc := svc.Descriptor()
	return contentHandler[T]{
		svc:     svc,
		metrics: m,
		name:    desc.Name,
		plural:  desc.Plural,
		log:     log.With().Str("collection", desc.Plural).Logger(),
	}
}

// registerContent mounts the public list under public and the full CRUD set
// under admin. Reads stay public on both paths.
func registerContent[T any](public, admin *gin.RouterGroup, path string, guard gin.HandlerFunc, h contentHandler[T]) {
	public.GET(path, h.list)
	admin.GET(path, h.list)
	admin.POST(path, guard, h.create)
	admin.PUT(path, guard, h.update)
	admin.DELETE(path, guard, h.remove)
}

func (h contentHandler[T]) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + h.plural})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h contentHandler[T]) create(c *gin.Context) {
	var item T
	if err := json.NewDecoder(c.Request.Body).Decode(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), item)
	if err != nil {
		writeError(c, h.log, h.name, "create", err)
		return
	}
	h.metrics.ObserveMutation(h.plural, "create")
	c.JSON(http.StatusCreated, created)
}

func (h contentHandler[T]) update(c *gin.Context) {
	body, id, err := readUpdateBody(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, func(item *T) error {
		return mergeJSON(body, item)
	})
	if err != nil {
		writeError(c, h.log, h.name, "update", err)
		return
	}
	h.metrics.ObserveMutation(h.plural, "update")
	c.JSON(http.StatusOK, updated)
}

func (h contentHandler[T]) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Query("id")); err != nil {
		writeError(c, h.log, h.name, "delete", err)
		return
	}
	h.metrics.ObserveMutation(h.plural, "delete")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": h.name + " deleted"})
}

// readUpdateBody returns the raw JSON object and the record id it names under
// "_id" (or "id").
func readUpdateBody(r io.Reader) ([]byte, string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	var head struct {
		UnderscoreID string `json:"_id"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, "", err
	}
	if head.UnderscoreID != "" {
		return body, head.UnderscoreID, nil
	}
	return body, head.ID, nil
}

// mergeJSON overwrites the fields present in body. Type mismatches count as
// validation failures.
func mergeJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", service.ErrValidation, err)
	}
	return nil
}

// writeError maps service errors onto status codes. Validation failures are
// reported as 500 with their message.
func writeError(c *gin.Context, log zerolog.Logger, name, op string, err error) {
	label := strings.ToLower(name)
	switch {
	case errors.Is(err, service.ErrMissingID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
	case errors.Is(err, service.ErrValidation):
		log.Warn().Err(err).Str("op", op).Msg("validation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to %s %s: %s", op, label, err.Error())})
	default:
		log.Error().Err(err).Str("op", op).Msg("persistence failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to %s %s", op, label)})
	}
}
