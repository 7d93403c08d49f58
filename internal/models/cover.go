package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"phone-cover-backend/internal/compositing"
)

// CoverTemplate is an operator-uploaded phone cover template. TemplateFile
// is the asset name inside the templates directory.
type CoverTemplate struct {
	ID           uuid.UUID
	ModelName    string
	TemplateFile string
	KeyColor     *compositing.KeyColorRange
	Brightness   sql.NullFloat64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// KeyRange returns the template's key color override or the default green range.
func (t *CoverTemplate) KeyRange() compositing.KeyColorRange {
	if t.KeyColor != nil {
		return *t.KeyColor
	}
	return compositing.DefaultKeyColorRange
}

// BrightnessOr returns the template's brightness override or def.
func (t *CoverTemplate) BrightnessOr(def float64) float64 {
	if t.Brightness.Valid && t.Brightness.Float64 > 0 {
		return t.Brightness.Float64
	}
	return def
}
