package events

import (
	"encoding/json"
	"fmt"
	"time"

	"minibar/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// EnvelopeVersion is bumped whenever a payload changes incompatibly.
	EnvelopeVersion = 1

	producerName = "minibar-api"
)

// Envelope wraps every published store event.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Room         string          `json:"room"`
	Payload      json.RawMessage `json:"payload"`
}

// LinePayload is the payload of line.* events.
type LinePayload struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SlotPayload is the payload of slot.* events. Both fields are nil when the
// slot was cleared.
type SlotPayload struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// NewEnvelope converts a store event into its published form.
func NewEnvelope(ev store.Event) (Envelope, error) {
	var payload any
	switch {
	case ev.Line != nil:
		payload = LinePayload{
			LineID:      ev.Line.ID,
			ProductID:   ev.Line.Product.ID,
			ProductName: ev.Line.Product.Name,
			UnitPrice:   ev.Line.Product.Price,
			Quantity:    ev.Line.Quantity,
			CreatedAt:   ev.Line.CreatedAt.UTC(),
		}
	case ev.Slot != nil:
		start, end := ev.Slot.Start.UTC(), ev.Slot.End.UTC()
		payload = SlotPayload{Start: &start, End: &end}
	default:
		payload = SlotPayload{}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", ev.Kind, err)
	}

	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    string(ev.Kind),
		EventVersion: EnvelopeVersion,
		OccurredAt:   ev.OccurredAt.UTC(),
		Producer:     producerName,
		Room:         ev.Room,
		Payload:      raw,
	}, nil
}
