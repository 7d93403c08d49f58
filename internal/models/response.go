package models

import (
	"time"

	"phone-cover-backend/internal/compositing"
)

type GenerateCoverResponse struct {
	Message           string `json:"message"`
	GeneratedImageURL string `json:"generated_image_url"`
	OutputIdentifier  string `json:"output_identifier"`
	Alt               string `json:"alt"`
}

type TemplateResponse struct {
	ID            string                     `json:"id"`
	CoverModel    string                     `json:"cover_model"`
	CoverTemplate string                     `json:"cover_template"`
	TemplateURL   string                     `json:"template_url"`
	KeyColor      *compositing.KeyColorRange `json:"key_color,omitempty"`
	Brightness    *float64                   `json:"brightness,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

type TemplateMutationResponse struct {
	Message string           `json:"message"`
	Data    TemplateResponse `json:"data"`
}

type InspectionResponse struct {
	CoverModel string `json:"cover_model"`
	*compositing.Inspection
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
