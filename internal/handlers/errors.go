package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"phone-cover-backend/internal/database"
	"phone-cover-backend/internal/models"
	"phone-cover-backend/internal/services"
	"phone-cover-backend/internal/storage"
)

// respondError maps service and repository errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var genErr *services.Error
	if errors.As(err, &genErr) {
		status := http.StatusInternalServerError
		switch genErr.Kind {
		case services.KindTemplateNotFound, services.KindTemplateAssetMissing:
			status = http.StatusNotFound
		case services.KindInvalidImage:
			if genErr.Subject == services.SubjectUserPhoto {
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, models.ErrorResponse{Error: string(genErr.Kind), Message: genErr.Error()})
		return
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "template not found"})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "template already exists", Message: err.Error()})
	case errors.Is(err, services.ErrInvalidTemplate):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid template", Message: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "file not found", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error", Message: err.Error()})
	}
}
