package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafka.Message
	deadline bool
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{w: w}

	event := map[string]any{"type": "product_created", "entity_id": 7}
	require.NoError(t, p.PublishEvent(context.Background(), "storefront_events", "7", event))

	require.Len(t, w.msgs, 1)
	m := w.msgs[0]
	assert.Equal(t, "storefront_events", m.Topic)
	assert.Equal(t, []byte("7"), m.Key)
	assert.True(t, w.deadline, "a delivery deadline is always set")

	var got map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &got))
	assert.Equal(t, "product_created", got["type"])
	assert.EqualValues(t, 7, got["entity_id"])
}

func TestPublishEvent_Errors(t *testing.T) {
	p := &Producer{w: &fakeWriter{err: errors.New("no brokers")}}
	err := p.PublishEvent(context.Background(), "t", "k", map[string]any{})
	require.ErrorContains(t, err, "no brokers")

	err = p.PublishEvent(context.Background(), "t", "k", func() {})
	require.ErrorContains(t, err, "json.Marshal")
}

func TestPublishEvent_KeepsCallerDeadline(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{w: w}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.NoError(t, p.PublishEvent(ctx, "t", "k", 1))
	assert.True(t, w.deadline)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	kw, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "localhost:9092", kw.Addr.String())
	require.NoError(t, p.Close())
}
