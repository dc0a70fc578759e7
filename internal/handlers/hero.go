package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"portfolio/internal/metrics"
	"portfolio/internal/models"
	"portfolio/internal/service"
)

const heroName = "Hero content"

// heroFormFields maps multipart field names onto hero attributes.
var heroFormFields = map[string]func(*models.HeroContent, string){
	"title":       func(h *models.HeroContent, v string) { h.Title = v },
	"subtitle":    func(h *models.HeroContent, v string) { h.Subtitle = v },
	"description": func(h *models.HeroContent, v string) { h.Description = v },
	"imageUrl":    func(h *models.HeroContent, v string) { h.ImageURL = v },
	"ctaText":     func(h *models.HeroContent, v string) { h.CTAText = v },
	"ctaLink":     func(h *models.HeroContent, v string) { h.CTALink = v },
}

type heroHandler struct {
	svc     *service.HeroService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// get returns the active hero record, or an empty object when none exists.
func (h heroHandler) get(c *gin.Context) {
	hero, err := h.svc.First(c.Request.Context())
	if service.IsNotFound(err) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("fetch hero failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hero content"})
		return
	}
	c.JSON(http.StatusOK, hero)
}

func (h heroHandler) create(c *gin.Context) {
	var (
		hero   models.HeroContent
		upload *service.ResumeUpload
	)

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}
		applyHeroForm(&hero, form)

		file, err := openResume(form)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume file"})
			return
		}
		if file != nil {
			defer file.Close()
			upload = &file.upload
		}
	} else if err := json.NewDecoder(c.Request.Body).Decode(&hero); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.svc.CreateWithResume(c.Request.Context(), hero, upload)
	if err != nil {
		writeError(c, h.log, heroName, "create", err)
		return
	}
	h.metrics.ObserveMutation("heroes", "create")
	c.JSON(http.StatusCreated, created)
}

func (h heroHandler) update(c *gin.Context) {
	var (
		id     string
		change service.HeroChange
	)

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}
		id = formValue(form, "_id")
		change.Apply = func(hero *models.HeroContent) error {
			applyHeroForm(hero, form)
			return nil
		}
		change.RemoveResume = formValue(form, "removeResume") == "true"

		if !change.RemoveResume {
			file, err := openResume(form)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume file"})
				return
			}
			if file != nil {
				defer file.Close()
				change.Upload = &file.upload
			}
		}
	} else {
		body, bodyID, err := readUpdateBody(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		id = bodyID
		change.Apply = func(hero *models.HeroContent) error {
			return mergeJSON(body, hero)
		}
	}

	updated, err := h.svc.UpdateWithResume(c.Request.Context(), id, change)
	if err != nil {
		writeError(c, h.log, heroName, "update", err)
		return
	}
	h.metrics.ObserveMutation("heroes", "update")
	c.JSON(http.StatusOK, updated)
}

func (h heroHandler) remove(c *gin.Context) {
	if err := h.svc.DeleteWithResume(c.Request.Context(), c.Query("id")); err != nil {
		writeError(c, h.log, heroName, "delete", err)
		return
	}
	h.metrics.ObserveMutation("heroes", "delete")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": heroName + " deleted"})
}

// Resume streams the active hero's attachment as a download.
func (h HandlerSet) Resume(c *gin.Context) {
	file, err := h.services.Hero.OpenResume(c.Request.Context())
	if errors.Is(err, service.ErrResumeNotFound) {
		c.String(http.StatusNotFound, "Resume not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("serve resume failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer file.Body.Close()

	size := file.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, file.ContentType, file.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, file.FileName),
	})
}

// applyHeroForm overwrites only the fields present in the form.
func applyHeroForm(hero *models.HeroContent, form *multipart.Form) {
	for field, set := range heroFormFields {
		if values, ok := form.Value[field]; ok && len(values) > 0 {
			set(hero, values[0])
		}
	}
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

type resumePart struct {
	file   multipart.File
	upload service.ResumeUpload
}

func (p *resumePart) Close() error {
	return p.file.Close()
}

// openResume returns nil when no non-empty "resume" part was sent.
func openResume(form *multipart.Form) (*resumePart, error) {
	headers := form.File["resume"]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &resumePart{
		file: file,
		upload: service.ResumeUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		},
	}, nil
}
