package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/recruiting-crm/pkg/composables"
)

// Publisher writes messages into the outbox using the transaction carried by
// ctx, so a message becomes visible to the relay only if the caller commits.
type Publisher interface {
	Enqueue(ctx context.Context, msg Message) (sequence int64, err error)
}

type publisher struct {
	table pgx.Identifier
	label string
	m     *metrics
}

func NewPublisher(table pgx.Identifier) Publisher {
	return &publisher{table: table, label: TableLabel(table), m: getMetrics()}
}

func (p *publisher) Enqueue(ctx context.Context, msg Message) (int64, error) {
	if msg.EventID == uuid.Nil {
		return 0, invalidMessage("event_id is required")
	}
	if msg.Topic == "" {
		return 0, invalidMessage("topic is required")
	}
	if len(p.table) == 0 {
		return 0, invalidConfig("table is required")
	}
	tx, err := composables.UseExplicitTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("outbox enqueue %s: %w", msg.Topic, err)
	}

	q := fmt.Sprintf(
		`INSERT INTO %s (topic, aggregate_id, payload, event_id, available_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (event_id) DO UPDATE SET event_id = EXCLUDED.event_id
		 RETURNING sequence`,
		p.table.Sanitize(),
	)

	var sequence int64
	if err := tx.QueryRow(ctx, q, msg.Topic, msg.AggregateID, msg.Payload, msg.EventID).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("outbox enqueue: %w", err)
	}

	p.m.enqueued.WithLabelValues(p.label, msg.Topic).Inc()
	return sequence, nil
}
