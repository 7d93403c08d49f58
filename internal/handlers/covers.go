package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"phone-cover-backend/internal/logging"
	"phone-cover-backend/internal/models"
	"phone-cover-backend/internal/services"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type CoverHandler struct {
	covers         *services.CoverService
	maxUploadBytes int64
	log            logging.Logger
}

func NewCoverHandler(covers *services.CoverService, maxUploadBytes int64, log logging.Logger) *CoverHandler {
	return &CoverHandler{
		covers:         covers,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Generate godoc
// @Summary     Generate a phone cover
// @Description Composites the uploaded photo into the key color region of the
// @Description template registered for cover_model and stores the result as a PNG.
// @Tags        covers
// @Accept      multipart/form-data
// @Produce     json
// @Param       cover_model formData string true "Model name of a registered template"
// @Param       user_image formData file true "Photo to place on the cover"
// @Success     200 {object} models.GenerateCoverResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /covers/generate [post]
func (h *CoverHandler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	modelName := strings.TrimSpace(c.PostForm("cover_model"))
	header, err := c.FormFile("user_image")
	if modelName == "" || err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Model name and image are required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open image", Message: err.Error()})
		return
	}
	defer src.Close()

	photo, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read image", Message: err.Error()})
		return
	}

	name, err := h.covers.Generate(c.Request.Context(), modelName, photo, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateCoverResponse{
		Message:           "Cover generated successfully",
		GeneratedImageURL: h.covers.GeneratedURL(name),
		OutputIdentifier:  name,
		Alt:               modelName,
	})
}

// List godoc
// @Summary     List generated covers
// @Description Returns the public URLs of every generated cover
// @Tags        covers
// @Produce     json
// @Success     200 {array} string
// @Failure     500 {object} models.ErrorResponse
// @Router      /covers [get]
func (h *CoverHandler) List(c *gin.Context) {
	names, err := h.covers.ListGenerated(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = h.covers.GeneratedURL(name)
	}
	c.JSON(http.StatusOK, urls)
}

// QRCode godoc
// @Summary     Share QR code for a generated cover
// @Description Returns a PNG QR code encoding the public URL of the cover
// @Tags        covers
// @Produce     png
// @Param       name path string true "Output identifier of the cover"
// @Param       size query int false "Edge length in pixels (default 256, max 1024)"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /covers/{name}/qr [get]
func (h *CoverHandler) QRCode(c *gin.Context) {
	name := c.Param("name")

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid size",
				Message: fmt.Sprintf("size must be between 1 and %d", maxQRSize),
			})
			return
		}
		size = n
	}

	exists, err := h.covers.Exists(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "cover not found"})
		return
	}

	png, err := qrcode.Encode(h.covers.GeneratedURL(name), qrcode.Medium, size)
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to encode qr code", "cover", name, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to encode qr code", Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
