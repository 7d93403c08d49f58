package models

import "phone-cover-backend/internal/compositing"

// TemplateOverrides are the optional per-template compositing settings,
// sent as a JSON form field alongside the template upload.
type TemplateOverrides struct {
	// KeyColor replaces the default green range (hue 35-85, sat/val 100-255).
	KeyColor *compositing.KeyColorRange `json:"key_color,omitempty"`
	// Brightness replaces the default 1.2 gain applied to user photos.
	Brightness *float64 `json:"brightness,omitempty" example:"1.2"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
