package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"phone-cover-backend/internal/compositing"
	"phone-cover-backend/internal/logging"
	"phone-cover-backend/internal/models"
	"phone-cover-backend/internal/storage"
	"phone-cover-backend/internal/supabase"
)

var ErrInvalidTemplate = errors.New("invalid template")

// TemplateStore is the full template record store used by operators.
type TemplateStore interface {
	TemplateRepository
	Create(ctx context.Context, t *models.CoverTemplate) (*models.CoverTemplate, error)
	List(ctx context.Context) ([]models.CoverTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CoverTemplate, error)
	Update(ctx context.Context, t *models.CoverTemplate) (*models.CoverTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByTemplateFile(ctx context.Context, templateFile string) (int, error)
}

// TemplateInput carries an operator upload. Data and Filename are optional
// on update.
type TemplateInput struct {
	ModelName string
	Filename  string
	Data      []byte
	Overrides models.TemplateOverrides
}

type TemplateService struct {
	templates   TemplateStore
	store       storage.FileStore
	dir         string
	paletteSize int
	events      EventPublisher
	log         logging.Logger
}

func NewTemplateService(templates TemplateStore, store storage.FileStore, dir string, paletteSize int, events EventPublisher, log logging.Logger) *TemplateService {
	return &TemplateService{
		templates:   templates,
		store:       store,
		dir:         dir,
		paletteSize: paletteSize,
		events:      events,
		log:         log,
	}
}

func (s *TemplateService) List(ctx context.Context) ([]models.CoverTemplate, error) {
	return s.templates.List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*models.CoverTemplate, error) {
	return s.templates.Get(ctx, id)
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.CoverTemplate, error) {
	modelName := strings.TrimSpace(in.ModelName)
	if modelName == "" {
		return nil, fmt.Errorf("%w: cover_model is required", ErrInvalidTemplate)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: cover_template file is required", ErrInvalidTemplate)
	}
	if err := validateOverrides(in.Overrides); err != nil {
		return nil, err
	}
	if _, err := decode(in.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	fileName, err := s.storeAsset(ctx, in.Filename, in.Data)
	if err != nil {
		return nil, err
	}

	tmpl := &models.CoverTemplate{ModelName: modelName, TemplateFile: fileName}
	applyOverrides(tmpl, in.Overrides)

	created, err := s.templates.Create(ctx, tmpl)
	if err != nil {
		s.releaseAsset(ctx, fileName)
		return nil, err
	}

	s.log.Info(ctx, "template created", "cover_model", created.ModelName, "file", created.TemplateFile)
	s.publish(ctx, supabase.EventTemplateCreated, created)
	return created, nil
}

// Update renames the template, replaces its asset when Data is set, and
// applies any overrides given.
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, in TemplateInput) (*models.CoverTemplate, error) {
	existing, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateOverrides(in.Overrides); err != nil {
		return nil, err
	}

	tmpl := *existing
	if name := strings.TrimSpace(in.ModelName); name != "" {
		tmpl.ModelName = name
	}
	applyOverrides(&tmpl, in.Overrides)

	oldFile := existing.TemplateFile
	if len(in.Data) > 0 {
		if _, err := decode(in.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		if tmpl.TemplateFile, err = s.storeAsset(ctx, in.Filename, in.Data); err != nil {
			return nil, err
		}
	}

	updated, err := s.templates.Update(ctx, &tmpl)
	if err != nil {
		if tmpl.TemplateFile != oldFile {
			s.releaseAsset(ctx, tmpl.TemplateFile)
		}
		return nil, err
	}
	if updated.TemplateFile != oldFile {
		s.releaseAsset(ctx, oldFile)
	}

	s.log.Info(ctx, "template updated", "cover_model", updated.ModelName, "file", updated.TemplateFile)
	s.publish(ctx, supabase.EventTemplateUpdated, updated)
	return updated, nil
}

func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.templates.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.releaseAsset(ctx, existing.TemplateFile)

	s.log.Info(ctx, "template deleted", "cover_model", existing.ModelName)
	s.publish(ctx, supabase.EventTemplateDeleted, existing)
	return nil
}

// Inspect reports the key region and dominant palette of a stored template.
func (s *TemplateService) Inspect(ctx context.Context, id uuid.UUID) (*models.CoverTemplate, *compositing.Inspection, error) {
	tmpl, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.store.ReadBytes(ctx, s.assetPath(tmpl.TemplateFile))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, newError(KindTemplateAssetMissing, tmpl.TemplateFile, err)
		}
		return nil, nil, fmt.Errorf("failed to read template: %w", err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, nil, newError(KindInvalidImage, SubjectTemplate, err)
	}

	inspection, err := compositing.Inspect(img, tmpl.KeyRange(), s.paletteSize)
	if err != nil {
		return nil, nil, err
	}
	return tmpl, inspection, nil
}

func (s *TemplateService) TemplateURL(fileName string) string {
	return s.store.PublicURL(s.assetPath(fileName))
}

func (s *TemplateService) assetPath(fileName string) string {
	return path.Join(s.dir, fileName)
}

// storeAsset writes data under the formatted upload name. A name another
// template already references gets a short random suffix so its asset is
// never overwritten.
func (s *TemplateService) storeAsset(ctx context.Context, filename string, data []byte) (string, error) {
	fileName := FormatTemplateName(filename)
	refs, err := s.templates.CountByTemplateFile(ctx, fileName)
	if err != nil {
		return "", err
	}
	if refs > 0 {
		fileName = withSuffix(fileName, uuid.NewString()[:8])
	}
	if err := s.store.WriteBytes(ctx, s.assetPath(fileName), data); err != nil {
		return "", fmt.Errorf("failed to store template asset: %w", err)
	}
	return fileName, nil
}

// releaseAsset removes fileName once no template references it.
func (s *TemplateService) releaseAsset(ctx context.Context, fileName string) {
	refs, err := s.templates.CountByTemplateFile(ctx, fileName)
	if err != nil {
		s.log.Warn(ctx, "keeping template asset, reference check failed", "file", fileName, "error", err)
		return
	}
	if refs > 0 {
		s.log.Debug(ctx, "template asset still referenced", "file", fileName, "references", refs)
		return
	}
	if err := s.store.Delete(ctx, s.assetPath(fileName)); err != nil {
		s.log.Warn(ctx, "failed to remove template asset", "file", fileName, "error", err)
	}
}

func (s *TemplateService) publish(ctx context.Context, event string, t *models.CoverTemplate) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event, supabase.TemplatePayload(t.ID.String(), t.ModelName, t.TemplateFile)); err != nil {
		s.log.Warn(ctx, "failed to publish event", "event", event, "error", err)
	}
}

func validateOverrides(o models.TemplateOverrides) error {
	if o.KeyColor != nil {
		if err := o.KeyColor.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
	}
	if o.Brightness != nil && *o.Brightness <= 0 {
		return fmt.Errorf("%w: brightness must be positive", ErrInvalidTemplate)
	}
	return nil
}

func applyOverrides(t *models.CoverTemplate, o models.TemplateOverrides) {
	if o.KeyColor != nil {
		kr := *o.KeyColor
		t.KeyColor = &kr
	}
	if o.Brightness != nil {
		t.Brightness = sql.NullFloat64{Float64: *o.Brightness, Valid: true}
	}
}
