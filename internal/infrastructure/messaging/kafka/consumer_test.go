package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockKafkaReader serves queued messages and then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }

func (m *mockKafkaReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "test-group",
		Topic:   "requests",
		RetryConfig: RetryConfig{
			MaxRetries:   2,
			RetryBackoff: time.Millisecond,
		},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	for name, mutate := range map[string]func(*ConsumerConfig){
		"brokers": func(c *ConsumerConfig) { c.Brokers = nil },
		"group":   func(c *ConsumerConfig) { c.GroupID = "" },
		"topic":   func(c *ConsumerConfig) { c.Topic = "" },
		"offset":  func(c *ConsumerConfig) { c.AutoOffsetReset = "middle" },
		"retries": func(c *ConsumerConfig) { c.RetryConfig.MaxRetries = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := newTestConsumerConfig()
			mutate(&cfg)
			assert.Error(t, ValidateConsumerConfig(cfg))
		})
	}
}

func TestNewConsumerWithReader_RequiresHandler(t *testing.T) {
	_, err := NewConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestConsumer_ProcessesAndCommits(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		{Topic: "requests", Offset: 0, Value: []byte("a"), Headers: []kafka.Header{{Key: "k", Value: []byte("v")}}},
		{Topic: "requests", Offset: 1, Value: []byte("b")},
	}}

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})
	handler := func(_ context.Context, msg *Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(msg.Value))
		if msg.Offset == 0 {
			assert.Equal(t, "v", msg.Headers["k"])
		}
		if len(seen) == 2 {
			close(done)
		}
		return nil
	}

	c, err := NewConsumerWithReader(reader, newTestConsumerConfig(), handler, nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handler")
	}
	assert.Eventually(t, func() bool { return reader.commits() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
	assert.Equal(t, []string{"a", "b"}, seen)

	consumed, processed, failed, _ := c.Metrics()
	assert.Equal(t, int64(2), consumed)
	assert.Equal(t, int64(2), processed)
	assert.Equal(t, int64(0), failed)
}

func TestProcessMessage_RetrySuccess(t *testing.T) {
	attempts := 0
	c, err := NewConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), func(context.Context, *Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("fail")
		}
		return nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, c.processMessage(context.Background(), &Message{}))
	assert.Equal(t, 2, attempts)
	_, _, _, retried := c.Metrics()
	assert.Equal(t, int64(1), retried)
}

func TestProcessMessage_RetryExhausted(t *testing.T) {
	attempts := 0
	c, err := NewConsumerWithReader(&mockKafkaReader{}, newTestConsumerConfig(), func(context.Context, *Message) error {
		attempts++
		return errors.New("fail")
	}, nil)
	require.NoError(t, err)

	err = c.processMessage(context.Background(), &Message{})
	assert.EqualError(t, err, "fail")
	assert.Equal(t, 3, attempts)
}

func TestProcessMessage_CancelledDuringBackoff(t *testing.T) {
	cfg := newTestConsumerConfig()
	cfg.RetryConfig.RetryBackoff = time.Hour
	c, err := NewConsumerWithReader(&mockKafkaReader{}, cfg, func(context.Context, *Message) error {
		return errors.New("fail")
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.processMessage(ctx, &Message{}), context.Canceled)
}

//Personal.AI order the ending
