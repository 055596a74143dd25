package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
)

type decoder func(payload json.RawMessage) (any, error)

// Dispatcher republishes relayed outbox messages on the in-process event bus.
// Topics registered with Register are decoded into their event type and
// published as (ctx, *T); subscribers may return an error to request a retry.
type Dispatcher struct {
	bus eventbus.EventBusWithError
	log *logrus.Entry

	mu       sync.RWMutex
	decoders map[string]decoder
}

func New(bus eventbus.EventBusWithError, log *logrus.Entry) *Dispatcher {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Dispatcher{bus: bus, log: log, decoders: map[string]decoder{}}
}

// Register routes topic to events of type T.
func Register[T any](d *Dispatcher, topic string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decoders[topic] = func(payload json.RawMessage) (any, error) {
		var event T
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return &event, nil
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg outbox.DispatchedMessage) error {
	d.mu.RLock()
	decode, ok := d.decoders[msg.Meta.Topic]
	d.mu.RUnlock()

	log := d.log.WithFields(logrus.Fields{
		"topic":    msg.Meta.Topic,
		"event_id": msg.Meta.EventID.String(),
	})
	if !ok {
		log.Debug("outbox: no route for topic, acking")
		return nil
	}

	event, err := decode(msg.Payload)
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Meta.Topic, err)
	}

	err = d.bus.PublishE(ctx, event)
	if errors.Is(err, eventbus.ErrNoSubscribers) {
		log.Debug("outbox: no subscribers for topic")
		return nil
	}
	return err
}
