package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// fakeReader serves queued messages and records commits.
type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.msgs:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func eventMessage(t *testing.T, eventType EventType) kafka.Message {
	value, err := json.Marshal(Event{Type: eventType, Product: &models.Product{ID: uuid.New()}})
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := newFakeReader(
		eventMessage(t, ProductCreated),
		kafka.Message{Value: []byte("not json")},
		eventMessage(t, ProductDeleted),
	)
	core, recorded := observer.New(zap.ErrorLevel)
	consumer := newConsumer(reader, zap.New(core))

	handled := make(chan EventType, 3)
	consumer.RegisterHandler(func(_ context.Context, event Event) error {
		handled <- event.Type
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)

	for _, want := range []EventType{ProductCreated, ProductDeleted} {
		select {
		case got := <-handled:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %s not handled", want)
		}
	}

	cancel()
	consumer.Wait()
	consumer.Close()

	assert.Equal(t, 2, reader.commits(), "only handled events are committed")
	assert.Equal(t, 1, recorded.FilterMessage("Failed to parse event").Len())
	assert.True(t, reader.closed)
}

func TestConsumer_HandlerErrorSkipsCommit(t *testing.T) {
	reader := newFakeReader(eventMessage(t, ProductUpdated))
	consumer := newConsumer(reader, zaptest.NewLogger(t))

	called := make(chan struct{})
	consumer.RegisterHandler(func(context.Context, Event) error {
		close(called)
		return errors.New("handler failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
	cancel()
	consumer.Wait()

	assert.Equal(t, 0, reader.commits())
}
