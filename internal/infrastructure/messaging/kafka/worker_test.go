package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	layoutsvc "github.com/turtacn/molsdg/internal/application/layout"
	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

type recordingPublisher struct {
	msgs []*ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg *ProducerMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

type layoutFunc func(ctx context.Context, req *layout.Request) (*layout.Result, error)

func (f layoutFunc) Layout(ctx context.Context, req *layout.Request) (*layout.Result, error) {
	return f(ctx, req)
}

func decodeEnvelope(t *testing.T, msg *ProducerMessage) layout.Envelope {
	t.Helper()
	var env layout.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	return env
}

func newTestMetrics(t *testing.T) *prometheus.AppMetrics {
	t.Helper()
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test", Subsystem: "worker"}, nil)
	require.NoError(t, err)
	return prometheus.NewAppMetrics(c)
}

func TestWorker_PublishesResult(t *testing.T) {
	svc := layoutsvc.NewService(config.NewDefaultConfig().Layout, nil)
	pub := &recordingPublisher{}
	metrics := newTestMetrics(t)
	w := NewWorker(svc, pub, "results", metrics, nil)

	err := w.Handle(context.Background(), &Message{Topic: "requests", Value: []byte(`{"request_id":"r1","smiles":"c1ccccc1"}`)})
	require.NoError(t, err)

	require.Len(t, pub.msgs, 1)
	out := pub.msgs[0]
	assert.Equal(t, "results", out.Topic)
	assert.Equal(t, "r1", string(out.Key))
	assert.Equal(t, "ok", out.Headers[HeaderStatus])

	env := decodeEnvelope(t, out)
	assert.Equal(t, "r1", env.RequestID)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Result)
	assert.Equal(t, "r1", env.Result.RequestID)
	assert.Len(t, env.Result.Atoms, 6)
	assert.Empty(t, env.Result.Unpositioned)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("requests", "ok").(prom.Collector)))
}

func TestWorker_LayoutErrorIsPublished(t *testing.T) {
	svc := layoutsvc.NewService(config.NewDefaultConfig().Layout, nil)
	pub := &recordingPublisher{}
	w := NewWorker(svc, pub, "results", nil, nil)

	err := w.Handle(context.Background(), &Message{Topic: "requests", Key: []byte("k1"), Value: []byte(`{"smiles":"C1CC"}`)})
	require.NoError(t, err)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "error", pub.msgs[0].Headers[HeaderStatus])
	env := decodeEnvelope(t, pub.msgs[0])
	assert.Equal(t, "k1", env.RequestID)
	assert.Nil(t, env.Result)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(apperrors.ErrCodeMalformedInput), env.Error.Code)
}

func TestWorker_UndecodableRequest(t *testing.T) {
	called := false
	pub := &recordingPublisher{}
	w := NewWorker(layoutFunc(func(context.Context, *layout.Request) (*layout.Result, error) {
		called = true
		return nil, nil
	}), pub, "results", nil, nil)

	require.NoError(t, w.Handle(context.Background(), &Message{Value: []byte("not json")}))
	assert.False(t, called)

	require.Len(t, pub.msgs, 1)
	env := decodeEnvelope(t, pub.msgs[0])
	assert.NotEmpty(t, env.RequestID)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(apperrors.ErrCodeSerialization), env.Error.Code)
}

func TestWorker_PublishFailureIsReturned(t *testing.T) {
	pub := &recordingPublisher{err: apperrors.New(apperrors.ErrCodeMessagingError, "broker down")}
	metrics := newTestMetrics(t)
	w := NewWorker(layoutFunc(func(_ context.Context, req *layout.Request) (*layout.Result, error) {
		return &layout.Result{SMILES: req.SMILES}, nil
	}), pub, "results", metrics, nil)

	err := w.Handle(context.Background(), &Message{Topic: "requests", Value: []byte(`{"smiles":"C"}`)})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("requests", "error").(prom.Collector)))
}

func TestWorker_CancellationIsReturned(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewWorker(layoutFunc(func(ctx context.Context, _ *layout.Request) (*layout.Result, error) {
		return nil, ctx.Err()
	}), pub, "results", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Handle(ctx, &Message{Value: []byte(`{"smiles":"C"}`)})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, pub.msgs)
}

//Personal.AI order the ending
