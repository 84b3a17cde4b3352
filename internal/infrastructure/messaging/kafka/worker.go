package kafka

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// Layouter computes one layout.
type Layouter interface {
	Layout(ctx context.Context, req *layout.Request) (*layout.Result, error)
}

// Publisher sends one message.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// Worker turns layout requests into result envelopes. Every consumed request
// produces exactly one envelope on the result topic, carrying either the
// result or the error. Only publish failures and cancellation are returned to
// the consumer for retry.
type Worker struct {
	layouter    Layouter
	publisher   Publisher
	resultTopic string
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
	now         func() time.Time
}

// NewWorker creates a Worker. A nil metrics value disables metrics.
func NewWorker(l Layouter, p Publisher, resultTopic string, metrics *prometheus.AppMetrics, logger logging.Logger) *Worker {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Worker{
		layouter:    l,
		publisher:   p,
		resultTopic: resultTopic,
		metrics:     metrics,
		logger:      logger.Named("worker"),
		now:         time.Now,
	}
}

// Handle is a MessageHandler.
func (w *Worker) Handle(ctx context.Context, msg *Message) error {
	start := w.now()

	req, decodeErr := DecodeRequest(msg)
	id := requestID(req, msg)
	ctx = logging.ContextWithRequestID(ctx, id)
	log := w.logger.WithContext(ctx).With(
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset))

	env := &layout.Envelope{RequestID: id}
	failure := decodeErr
	if decodeErr == nil {
		req.RequestID = id
		res, err := w.layouter.Layout(ctx, req)
		if err != nil && ctx.Err() != nil {
			return err
		}
		env.Result, failure = res, err
	}
	if failure != nil {
		env.Error = common.NewErrorDetail(failure)
		log.Warn("layout request failed", logging.Err(failure))
	}
	env.Timestamp = common.Timestamp(w.now().UTC())

	out, err := EnvelopeMessage(w.resultTopic, env)
	if err == nil {
		err = w.publisher.Publish(ctx, out)
	}
	if err != nil {
		log.Error("failed to publish layout result", logging.Err(err))
		prometheus.RecordWorkerMessage(w.metrics, msg.Topic, err, w.now().Sub(start))
		prometheus.RecordError(w.metrics, "worker", string(errors.GetCode(err)))
		return err
	}

	prometheus.RecordWorkerMessage(w.metrics, msg.Topic, failure, w.now().Sub(start))
	log.Debug("layout result published", logging.Bool("ok", failure == nil))
	return nil
}

// requestID picks the request's own id, then the message key, then a fresh one.
func requestID(req *layout.Request, msg *Message) string {
	if req != nil && req.RequestID != "" {
		return req.RequestID
	}
	if len(msg.Key) > 0 {
		return string(msg.Key)
	}
	return uuid.New().String()
}

//Personal.AI order the ending
