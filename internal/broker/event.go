package broker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventReportRendered = "report_rendered"
	EventSnapshotSeeded = "snapshot_seeded"
)

// Event é o corpo JSON publicado na fila e repassado aos navegadores pelo /ws.
type Event struct {
	ID     string    `json:"id"`
	Event  string    `json:"event"`
	Format string    `json:"format,omitempty"` // html, markdown, xlsx, svg
	At     time.Time `json:"at"`
}

func NewEvent(name, format string) Event {
	return Event{
		ID:     uuid.NewString(),
		Event:  name,
		Format: format,
		At:     time.Now().UTC(),
	}
}

func (e Event) Body() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func (e Event) Headers() amqp.Table {
	return amqp.Table{
		"event":     e.Event,
		"event_id":  e.ID,
		"format":    e.Format,
		"timestamp": e.At.Format(time.RFC3339),
	}
}

// DecodeEvent lê um corpo publicado por Publish; exige o campo "event".
func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Event == "" {
		return Event{}, fmt.Errorf("decode event: missing event name")
	}
	return e, nil
}
