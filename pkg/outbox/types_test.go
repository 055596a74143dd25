package outbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	aggregate := uuid.New()
	msg, err := NewMessage("pipeline.candidate.moved.v1", aggregate, map[string]string{"to": "Placed"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, msg.EventID)
	require.Equal(t, aggregate, msg.AggregateID)
	require.JSONEq(t, `{"to":"Placed"}`, string(msg.Payload))

	_, err = NewMessage("bad", aggregate, make(chan int))
	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestParseIdentifierList(t *testing.T) {
	ids, err := ParseIdentifierList(" public.crm_outbox , crm_outbox ")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, "public.crm_outbox", TableLabel(ids[0]))
	require.Equal(t, "crm_outbox", TableLabel(ids[1]))

	ids, err = ParseIdentifierList("")
	require.NoError(t, err)
	require.Nil(t, ids)

	_, err = ParseIdentifierList("a.b.c")
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseIdentifierList("public.crm-outbox")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPublisher_RequiresTransaction(t *testing.T) {
	table, err := ParseIdentifier("crm_outbox")
	require.NoError(t, err)
	p := NewPublisher(table)

	msg, err := NewMessage("invites.invite.redeemed.v1", uuid.New(), struct{}{})
	require.NoError(t, err)
	_, err = p.Enqueue(context.Background(), msg)
	require.Error(t, err)

	_, err = p.Enqueue(context.Background(), Message{Topic: "x"})
	require.ErrorIs(t, err, ErrInvalidMessage)
}
