package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewProducer(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t), 10)
	defer producer.Close()

	assert.NotNil(t, producer.writer)
	assert.Equal(t, 10, cap(producer.events))
	assert.NotNil(t, producer.closeChan)
	assert.Equal(t, "kafka_producer", producer.logger.Check(zap.InfoLevel, "").LoggerName)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("queued event is written", func(t *testing.T) {
		written := make(chan []kafka.Message, 1)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				written <- args.Get(1).([]kafka.Message)
			}).
			Return(nil)
		mockWriter.On("Close").Return(nil)

		producer := newProducer(mockWriter, zaptest.NewLogger(t), 10)
		defer producer.Close()
		product := &models.Product{ID: uuid.New(), Name: "Laptop"}

		producer.Produce(ProductCreated, product)

		select {
		case msgs := <-written:
			require.Len(t, msgs, 1)
			assert.Equal(t, []byte(product.ID.String()), msgs[0].Key)

			var event Event
			require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.Equal(t, ProductCreated, event.Type)
			assert.Equal(t, product.ID, event.Product.ID)
			assert.False(t, event.OccurredAt.IsZero())
		case <-time.After(2 * time.Second):
			t.Fatal("event was not written")
		}
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1), // no loop draining it
			logger: zap.New(core),
		}
		product := &models.Product{ID: uuid.New()}

		producer.Produce(ProductCreated, product)
		producer.Produce(ProductCreated, product) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, len(producer.events))
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	logger := zaptest.NewLogger(t)
	product := &models.Product{ID: uuid.New(), Name: "Test Product"}

	producer := &Producer{
		writer: mockWriter,
		logger: logger,
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		event := Event{Type: ProductCreated, Product: product}
		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(product.ID.String()),
				Value: mustMarshal(event),
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		event := Event{Type: ProductCreated, Product: product}
		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("product_id", product.ID.String())).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		event := Event{Type: ProductDeleted, Product: product}
		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		events:    make(chan Event, 2),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}
	producer.events <- Event{Type: ProductUpdated, Product: &models.Product{ID: uuid.New()}}
	producer.events <- Event{Type: ProductDeleted, Product: &models.Product{ID: uuid.New()}}
	go producer.eventLoop()

	producer.Close()

	select {
	case <-producer.done:
	default:
		t.Error("event loop still running")
	}
	assert.Len(t, producer.events, 0, "queued events should be flushed")
	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 2)
	mockWriter.AssertCalled(t, "Close")
}

func TestNopProducer(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	nop := NopProducer{Logger: zap.New(core)}

	nop.Produce(ProductCreated, &models.Product{ID: uuid.New()})
	nop.Close()
	NopProducer{}.Produce(ProductDeleted, &models.Product{ID: uuid.New()})

	assert.Equal(t, 1, recorded.FilterMessage("event discarded").Len())
}

func mustMarshal(event Event) []byte {
	data, _ := json.Marshal(event)
	return data
}
