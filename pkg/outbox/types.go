package outbox

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Message is one row of the outbox table.
type Message struct {
	Topic       string
	EventID     uuid.UUID
	AggregateID uuid.UUID
	Payload     json.RawMessage
}

// NewMessage encodes payload as JSON under a fresh event id.
func NewMessage(topic string, aggregateID uuid.UUID, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, invalidMessage("payload for %s is not encodable: %v", topic, err)
	}
	return Message{
		Topic:       topic,
		EventID:     uuid.New(),
		AggregateID: aggregateID,
		Payload:     raw,
	}, nil
}

// Meta is the stable dispatch metadata handed to dispatchers.
type Meta struct {
	Table       pgx.Identifier
	Topic       string
	EventID     uuid.UUID
	AggregateID uuid.UUID
	Sequence    int64
	Attempts    int
}

// DispatchedMessage is the unit delivered by Relay to Dispatcher.
type DispatchedMessage struct {
	Meta    Meta
	Payload json.RawMessage
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg DispatchedMessage) error
}
