package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"phone-cover-backend/internal/logging"
)

const (
	EventCoverGenerated  = "cover.generated"
	EventCoverFailed     = "cover.failed"
	EventTemplateCreated = "template.created"
	EventTemplateUpdated = "template.updated"
	EventTemplateDeleted = "template.deleted"
)

type eventRow struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

type rowInserter interface {
	Insert(table string, row any) error
}

type postgrestInserter struct {
	client *supabase.Client
}

func (p postgrestInserter) Insert(table string, row any) error {
	_, _, err := p.client.From(table).Insert(row, false, "", "minimal", "").Execute()
	return err
}

// EventPublisher records cover events in a table; clients subscribe to it
// through Supabase Realtime.
type EventPublisher struct {
	inserter rowInserter
	table    string
	log      logging.Logger
}

func NewEventPublisher(client *Client, log logging.Logger) *EventPublisher {
	return newEventPublisher(postgrestInserter{client: client.Supabase}, client.Config.SupabaseEventsTable, log)
}

func newEventPublisher(inserter rowInserter, table string, log logging.Logger) *EventPublisher {
	return &EventPublisher{inserter: inserter, table: table, log: log}
}

func (e *EventPublisher) PublishEvent(ctx context.Context, event string, payload map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.inserter.Insert(e.table, eventRow{Event: event, Payload: payload}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}
	e.log.Debug(ctx, "event published", "event", event, "table", e.table)
	return nil
}

// Event payloads
func CoverGeneratedPayload(modelName, outputName, url string) map[string]interface{} {
	return map[string]interface{}{
		"cover_model":       modelName,
		"output_identifier": outputName,
		"url":               url,
	}
}

func CoverFailedPayload(modelName, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"cover_model": modelName,
		"error":       errorMsg,
	}
}

func TemplatePayload(id, modelName, templateFile string) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"cover_model":    modelName,
		"cover_template": templateFile,
	}
}
