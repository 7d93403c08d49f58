package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"phone-cover-backend/internal/compositing"
	"phone-cover-backend/internal/database"
	"phone-cover-backend/internal/logging"
	"phone-cover-backend/internal/models"
	"phone-cover-backend/internal/raster"
	"phone-cover-backend/internal/storage"
	"phone-cover-backend/internal/supabase"
)

const timestampLayout = "20060102150405"

// TemplateRepository resolves a model name to its template record.
// Implementations return database.ErrNotFound when no record matches.
type TemplateRepository interface {
	GetByModel(ctx context.Context, modelName string) (*models.CoverTemplate, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event string, payload map[string]interface{}) error
}

// Dirs are the store-relative directories the cover service works in.
type Dirs struct {
	Templates string
	Uploads   string
	Generated string
}

type CoverService struct {
	templates  TemplateRepository
	store      storage.FileStore
	dirs       Dirs
	brightness float64
	events     EventPublisher
	log        logging.Logger
	now        func() time.Time
}

// NewCoverService wires the generation pipeline. events may be nil.
func NewCoverService(
	templates TemplateRepository,
	store storage.FileStore,
	dirs Dirs,
	brightness float64,
	events EventPublisher,
	log logging.Logger,
) *CoverService {
	if brightness <= 0 {
		brightness = compositing.DefaultBrightness
	}
	return &CoverService{
		templates:  templates,
		store:      store,
		dirs:       dirs,
		brightness: brightness,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

// Generate composites photo into the key region of modelName's template and
// stores the result as a PNG in the generated directory. It returns the
// output file name. The staged copy of photo is removed on every path.
func (s *CoverService) Generate(ctx context.Context, modelName string, photo []byte, filenameHint string) (string, error) {
	log := s.log.With("cover_model", modelName)

	name, err := s.generate(ctx, log, modelName, photo, filenameHint)
	if err != nil {
		log.Warn(ctx, "cover generation failed", "error", err)
		s.publish(ctx, supabase.EventCoverFailed, supabase.CoverFailedPayload(modelName, err.Error()))
		return "", err
	}

	log.Info(ctx, "cover generated", "output", name)
	s.publish(ctx, supabase.EventCoverGenerated,
		supabase.CoverGeneratedPayload(modelName, name, s.GeneratedURL(name)))
	return name, nil
}

func (s *CoverService) generate(ctx context.Context, log logging.Logger, modelName string, photo []byte, filenameHint string) (string, error) {
	tmpl, err := s.templates.GetByModel(ctx, modelName)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", newError(KindTemplateNotFound, modelName, nil)
		}
		return "", fmt.Errorf("failed to look up template: %w", err)
	}

	templatePath := path.Join(s.dirs.Templates, tmpl.TemplateFile)
	templateBytes, err := s.store.ReadBytes(ctx, templatePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", newError(KindTemplateAssetMissing, templatePath, err)
		}
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	stagedPath := path.Join(s.dirs.Uploads, uuid.NewString()+imageExt(filenameHint))
	if err := s.store.WriteBytes(ctx, stagedPath, photo); err != nil {
		return "", newError(KindStorageWrite, stagedPath, err)
	}
	defer func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), stagedPath); err != nil {
			log.Warn(ctx, "failed to remove staged upload", "path", stagedPath, "error", err)
		}
	}()

	staged, err := s.store.ReadBytes(ctx, stagedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read staged user image: %w", err)
	}

	templateImg, err := decode(templateBytes)
	if err != nil {
		return "", newError(KindInvalidImage, SubjectTemplate, err)
	}
	photoImg, err := decode(staged)
	if err != nil {
		return "", newError(KindInvalidImage, SubjectUserPhoto, err)
	}

	fitted, err := compositing.Fit(photoImg, templateImg.Width, templateImg.Height, tmpl.BrightnessOr(s.brightness))
	if err != nil {
		return "", newError(KindInvalidImage, SubjectUserPhoto, err)
	}

	mask, inverse, err := compositing.Segment(templateImg, tmpl.KeyRange())
	if err != nil {
		if errors.Is(err, compositing.ErrInvalidImage) {
			return "", newError(KindInvalidImage, SubjectTemplate, err)
		}
		return "", fmt.Errorf("failed to segment template: %w", err)
	}

	cover, err := compositing.Composite(templateImg, mask, inverse, fitted)
	if err != nil {
		if errors.Is(err, compositing.ErrDimensionMismatch) {
			return "", newError(KindDimensionMismatch, modelName, err)
		}
		return "", fmt.Errorf("failed to composite cover: %w", err)
	}
	log.Debug(ctx, "cover composited",
		"width", cover.Width, "height", cover.Height, "key_pixels", mask.Count())

	encoded, err := encodePNG(cover)
	if err != nil {
		return "", newError(KindStorageWrite, modelName, err)
	}

	name := fmt.Sprintf("%s_%s.png", outputStem(tmpl), s.now().Format(timestampLayout))
	if err := s.store.WriteBytes(ctx, path.Join(s.dirs.Generated, name), encoded); err != nil {
		return "", newError(KindStorageWrite, name, err)
	}

	return name, nil
}

// outputStem is the sanitized model name, or the template id when nothing
// of the model name survives sanitizing.
func outputStem(tmpl *models.CoverTemplate) string {
	if stem := SanitizeName(tmpl.ModelName); stem != "" {
		return stem
	}
	return tmpl.ID.String()
}

// ListGenerated returns the names of all generated covers, sorted.
func (s *CoverService) ListGenerated(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx, s.dirs.Generated)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated covers: %w", err)
	}

	covers := make([]string, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(path.Ext(name)) {
		case ".png", ".jpg", ".jpeg":
			covers = append(covers, name)
		}
	}
	sort.Strings(covers)
	return covers, nil
}

// Exists reports whether a generated cover with the given name is stored.
func (s *CoverService) Exists(ctx context.Context, name string) (bool, error) {
	covers, err := s.ListGenerated(ctx)
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(covers, name)
	return i < len(covers) && covers[i] == name, nil
}

func (s *CoverService) GeneratedURL(name string) string {
	return s.store.PublicURL(path.Join(s.dirs.Generated, name))
}

func (s *CoverService) publish(ctx context.Context, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event, payload); err != nil {
		s.log.Warn(ctx, "failed to publish event", "event", event, "error", err)
	}
}

func decode(data []byte) (*raster.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	decoded := raster.FromImage(img)
	if decoded.Empty() {
		return nil, compositing.ErrInvalidImage
	}
	return decoded, nil
}

func encodePNG(im *raster.Image) ([]byte, error) {
	nrgba, err := im.ToNRGBA()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, nrgba, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
