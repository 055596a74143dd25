// Package outboxtest provides an in-memory outbox.Publisher for service tests.
package outboxtest

import (
	"context"
	"sync"

	"github.com/iota-uz/recruiting-crm/pkg/outbox"
)

// Recorder keeps enqueued messages in memory. It implements
// uowtest.Snapshotter so messages vanish when the unit of work rolls back.
type Recorder struct {
	mu       sync.Mutex
	messages []outbox.Message
	// Err, when set, is returned by Enqueue instead of recording.
	Err error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Enqueue(_ context.Context, msg outbox.Message) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	r.messages = append(r.messages, msg)
	return int64(len(r.messages)), nil
}

func (r *Recorder) Messages() []outbox.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outbox.Message(nil), r.messages...)
}

// Topic returns the recorded messages published under topic.
func (r *Recorder) Topic(topic string) []outbox.Message {
	var out []outbox.Message
	for _, m := range r.Messages() {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func (r *Recorder) Snapshot() func() {
	r.mu.Lock()
	saved := len(r.messages)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.messages = r.messages[:saved]
	}
}
