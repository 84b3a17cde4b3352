package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/molsdg/internal/interfaces/http"
	"github.com/turtacn/molsdg/internal/interfaces/http/handlers"
	"github.com/turtacn/molsdg/pkg/errors"
)

// NewWorkerCmd creates the worker command.
func NewWorkerCmd() *cobra.Command {
	var ensureTopics bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the Kafka batch layout worker",
		Long: `Consume layout requests from the request topic and publish one result
envelope per request to the result topic. Health checks and metrics are served on the
configured HTTP port.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runWorker(cmd.Context(), cliCtx.Config, cliCtx.Logger, ensureTopics)
		},
	}

	cmd.Flags().BoolVar(&ensureTopics, "ensure-topics", false, "create the request and result topics when missing")
	return cmd
}

func runWorker(ctx context.Context, cfg *config.Config, logger logging.Logger, ensureTopics bool) error {
	if !cfg.Kafka.Enabled {
		return errors.New(errors.ErrCodeValidation, "kafka is disabled").WithDetail("set kafka.enabled to run the worker")
	}

	infra, err := initInfrastructure(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if ensureTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
		if err != nil {
			return err
		}
		err = tm.EnsureTopics(ctx, kafka.LayoutTopics(cfg.Kafka))
		_ = tm.Close()
		if err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	worker := kafka.NewWorker(infra.service(cfg.Layout), producer, cfg.Kafka.ResultTopic, infra.metrics, logger)
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     cfg.Kafka.Brokers,
		GroupID:     cfg.Kafka.GroupID,
		Topic:       cfg.Kafka.RequestTopic,
		RetryConfig: kafka.RetryConfig{MaxRetries: cfg.Kafka.MaxRetries},
	}, worker.Handle, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, logger, infra.checkers, handlers.WithHealthMetrics(infra.metrics)),
		Logger:           logger,
		Metrics:          infra.metrics,
		MetricsCollector: infra.collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	err = serveUntilDone(ctx, httpapi.NewServer(cfg.Server, router, logger), logger)

	consumed, processed, failed, retried := consumer.Metrics()
	logger.Info("worker stopped",
		logging.Int64("consumed", consumed),
		logging.Int64("processed", processed),
		logging.Int64("failed", failed),
		logging.Int64("retried", retried),
	)
	return err
}

//Personal.AI order the ending
