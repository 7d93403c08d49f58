package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"phone-cover-backend/internal/compositing"
	"phone-cover-backend/internal/logging"
	"phone-cover-backend/internal/middleware"
	"phone-cover-backend/internal/models"
	"phone-cover-backend/internal/services"
)

type TemplateHandler struct {
	templates      *services.TemplateService
	maxUploadBytes int64
	log            logging.Logger
}

func NewTemplateHandler(templates *services.TemplateService, maxUploadBytes int64, log logging.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates:      templates,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *TemplateHandler) toResponse(t *models.CoverTemplate) models.TemplateResponse {
	resp := models.TemplateResponse{
		ID:            t.ID.String(),
		CoverModel:    t.ModelName,
		CoverTemplate: t.TemplateFile,
		TemplateURL:   h.templates.TemplateURL(t.TemplateFile),
		KeyColor:      t.KeyColor,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Brightness.Valid {
		b := t.Brightness.Float64
		resp.Brightness = &b
	}
	return resp
}

// List godoc
// @Summary     List cover templates
// @Tags        templates
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.TemplateListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = h.toResponse(&templates[i])
	}
	c.JSON(http.StatusOK, models.TemplateListResponse{Templates: responses})
}

// Create godoc
// @Summary     Register a cover template
// @Description Stores the template image under a sanitized file name and records it
// @Description for cover_model. key_color is a JSON object
// @Description {"lower":{"h":35,"s":100,"v":100},"upper":{"h":85,"s":255,"v":255}}.
// @Tags        templates
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       cover_model formData string true "Phone model name"
// @Param       cover_template formData file true "Template image"
// @Param       key_color formData string false "Key color range override (JSON)"
// @Param       brightness formData number false "Brightness override"
// @Success     201 {object} models.TemplateMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c, true)
	if !ok {
		return
	}

	created, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info(c.Request.Context(), "template registered",
		"operator", c.GetString(middleware.OperatorIDKey), "cover_model", created.ModelName)
	c.JSON(http.StatusCreated, models.TemplateMutationResponse{
		Message: "Cover added successfully",
		Data:    h.toResponse(created),
	})
}

// Update godoc
// @Summary     Update a cover template
// @Description Every field is optional; a new cover_template replaces the stored image.
// @Tags        templates
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Template ID (UUID)"
// @Param       cover_model formData string false "Phone model name"
// @Param       cover_template formData file false "Template image"
// @Param       key_color formData string false "Key color range override (JSON)"
// @Param       brightness formData number false "Brightness override"
// @Success     200 {object} models.TemplateMutationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c, false)
	if !ok {
		return
	}

	updated, err := h.templates.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TemplateMutationResponse{
		Message: "Cover updated successfully",
		Data:    h.toResponse(updated),
	})
}

// Delete godoc
// @Summary     Delete a cover template
// @Tags        templates
// @Security    Bearer
// @Param       id path string true "Template ID (UUID)"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Inspect godoc
// @Summary     Inspect a cover template
// @Description Reports the key color region (pixel count, coverage, bounding box)
// @Description and the dominant colors of the template image.
// @Tags        templates
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Template ID (UUID)"
// @Success     200 {object} models.InspectionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /templates/{id}/inspect [get]
func (h *TemplateHandler) Inspect(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tmpl, inspection, err := h.templates.Inspect(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.InspectionResponse{CoverModel: tmpl.ModelName, Inspection: inspection})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid template id"})
		return uuid.Nil, false
	}
	return id, true
}

// bindInput reads the multipart template form. The file is mandatory only
// when requireFile is set.
func (h *TemplateHandler) bindInput(c *gin.Context, requireFile bool) (services.TemplateInput, bool) {
	var in services.TemplateInput

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return in, false
	}

	in.ModelName = strings.TrimSpace(c.PostForm("cover_model"))

	if raw := strings.TrimSpace(c.PostForm("key_color")); raw != "" {
		var kr compositing.KeyColorRange
		if err := json.Unmarshal([]byte(raw), &kr); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid key_color", Message: err.Error()})
			return in, false
		}
		in.Overrides.KeyColor = &kr
	}

	if raw := strings.TrimSpace(c.PostForm("brightness")); raw != "" {
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid brightness", Message: err.Error()})
			return in, false
		}
		in.Overrides.Brightness = &b
	}

	header, err := c.FormFile("cover_template")
	if err != nil {
		if requireFile {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "cover_template file is required"})
			return in, false
		}
		return in, true
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open template", Message: err.Error()})
		return in, false
	}
	defer src.Close()

	if in.Data, err = io.ReadAll(src); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read template", Message: err.Error()})
		return in, false
	}
	in.Filename = header.Filename
	return in, true
}
