package eventbus

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/pkg/logging"
)

type candidateMoved struct {
	candidateID string
}

type inviteRedeemed struct {
	code string
}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublish_NoMatchingSubscriberWarns(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *candidateMoved) {
		t.Error("should not be called")
	})

	publisher.Publish(&inviteRedeemed{code: "abc"})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublish_DeliversToMatchingHandler(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got string
	publisher.Subscribe(func(e *candidateMoved) { got = e.candidateID })
	publisher.Subscribe(func(e *inviteRedeemed) { t.Error("wrong handler") })

	publisher.Publish(&candidateMoved{candidateID: "c-1"})

	require.Equal(t, "c-1", got)
	require.Equal(t, 2, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *candidateMoved) {}, []any{&candidateMoved{}}))
	require.False(t, MatchSignature(func(e *candidateMoved) {}, []any{&inviteRedeemed{}}))
	require.False(t, MatchSignature(func(e *candidateMoved) {}, []any{}))
	require.False(t, MatchSignature(func(e *candidateMoved) {}, []any{&candidateMoved{}, &candidateMoved{}}))
	require.True(t, MatchSignature(func(ctx context.Context, e *candidateMoved) {}, []any{context.Background(), &candidateMoved{}}))
	require.True(t, MatchSignature(func(e *candidateMoved) {}, []any{nil}))
	require.False(t, MatchSignature("not a func", []any{}))
}

func TestPublish_PanicRecovery(t *testing.T) {
	t.Parallel()

	t.Run("panic is logged and later handlers still run", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.ErrorLevel)
		publisher := NewEventPublisher(log)

		var first, third bool
		publisher.Subscribe(func(e *candidateMoved) { first = true })
		publisher.Subscribe(func(e *candidateMoved) { panic("handler 2 panic") })
		publisher.Subscribe(func(e *candidateMoved) { third = true })

		publisher.Publish(&candidateMoved{candidateID: "c-1"})

		require.True(t, first)
		require.True(t, third)
		require.Contains(t, buf.String(), "panicked")
		require.Contains(t, buf.String(), "handler 2 panic")
	})

	t.Run("all handlers panicking counts as unhandled", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.WarnLevel)
		publisher := NewEventPublisher(log)
		publisher.Subscribe(func(e *candidateMoved) { panic("always") })

		publisher.Publish(&candidateMoved{})

		require.Contains(t, buf.String(), "no matching subscribers")
	})
}

func TestPublishE(t *testing.T) {
	t.Parallel()

	t.Run("no subscribers", func(t *testing.T) {
		publisher := NewEventPublisher(logrus.New())
		require.ErrorIs(t, publisher.PublishE(&candidateMoved{}), ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		publisher := NewEventPublisher(logrus.New())
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		publisher.Subscribe(func(e *candidateMoved) error { return err1 })
		publisher.Subscribe(func(e *candidateMoved) error { return err2 })

		err := publisher.PublishE(&candidateMoved{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("panic surfaces as error", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		called := false
		publisher.Subscribe(func(e *candidateMoved) error { panic("boom") })
		publisher.Subscribe(func(e *candidateMoved) error { called = true; return nil })

		require.Error(t, publisher.PublishE(&candidateMoved{}))
		require.True(t, called)
	})

	t.Run("invalid return signature", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		publisher.Subscribe(func(e *candidateMoved) int { return 1 })
		require.ErrorIs(t, publisher.PublishE(&candidateMoved{}), ErrInvalidHandlerReturn)
	})
}

func TestSubscribe_ConcurrentPublish(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var mu sync.Mutex
	count := 0
	publisher.Subscribe(func(e *candidateMoved) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Publish(&candidateMoved{})
		}()
	}
	wg.Wait()
	require.Equal(t, 20, count)
}

func TestClearAndUnsubscribe(t *testing.T) {
	publisher := NewEventPublisher(nil)
	handler := func(e *candidateMoved) {}
	publisher.Subscribe(handler)
	publisher.Subscribe(func(e *inviteRedeemed) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Clear()
	require.Zero(t, publisher.SubscribersCount())
}
