package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"phone-cover-backend/internal/compositing"
	"phone-cover-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("template not found")
	ErrDuplicate = errors.New("template already exists")
)

const uniqueViolation = "23505"

const templateColumns = `id, model_name, template_file, key_color, brightness, created_at, updated_at`

// TemplateRepository stores cover template metadata in Postgres.
type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.CoverTemplate, error) {
	var (
		t        models.CoverTemplate
		keyColor []byte
	)
	if err := row.Scan(&t.ID, &t.ModelName, &t.TemplateFile, &keyColor, &t.Brightness, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if len(keyColor) > 0 {
		var kr compositing.KeyColorRange
		if err := json.Unmarshal(keyColor, &kr); err != nil {
			return nil, fmt.Errorf("failed to decode key color for %s: %w", t.ModelName, err)
		}
		t.KeyColor = &kr
	}
	return &t, nil
}

func encodeKeyColor(kr *compositing.KeyColorRange) (any, error) {
	if kr == nil {
		return nil, nil
	}
	b, err := json.Marshal(kr)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func translate(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func (r *TemplateRepository) Create(ctx context.Context, t *models.CoverTemplate) (*models.CoverTemplate, error) {
	keyColor, err := encodeKeyColor(t.KeyColor)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key color: %w", err)
	}

	created, err := scanTemplate(r.db.QueryRowContext(ctx, `
		INSERT INTO cover_templates (model_name, template_file, key_color, brightness)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns,
		t.ModelName, t.TemplateFile, keyColor, t.Brightness,
	))
	if err != nil {
		return nil, translate(err, "create template")
	}
	return created, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]models.CoverTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM cover_templates
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []models.CoverTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepository) Get(ctx context.Context, id uuid.UUID) (*models.CoverTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM cover_templates
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, translate(err, "get template")
	}
	return t, nil
}

// GetByModel looks a template up by its exact model name.
func (r *TemplateRepository) GetByModel(ctx context.Context, modelName string) (*models.CoverTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM cover_templates
		WHERE model_name = $1
	`, modelName))
	if err != nil {
		return nil, translate(err, "get template")
	}
	return t, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *models.CoverTemplate) (*models.CoverTemplate, error) {
	keyColor, err := encodeKeyColor(t.KeyColor)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key color: %w", err)
	}

	updated, err := scanTemplate(r.db.QueryRowContext(ctx, `
		UPDATE cover_templates
		SET model_name = $1, template_file = $2, key_color = $3, brightness = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+templateColumns,
		t.ModelName, t.TemplateFile, keyColor, t.Brightness, t.ID,
	))
	if err != nil {
		return nil, translate(err, "update template")
	}
	return updated, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cover_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByTemplateFile reports how many templates reference the given asset.
func (r *TemplateRepository) CountByTemplateFile(ctx context.Context, templateFile string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM cover_templates
		WHERE template_file = $1
	`, templateFile).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count template references: %w", err)
	}
	return n, nil
}
