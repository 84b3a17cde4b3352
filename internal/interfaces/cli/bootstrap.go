package cli

import (
	layoutsvc "github.com/turtacn/molsdg/internal/application/layout"
	"github.com/turtacn/molsdg/internal/config"
	redisinfra "github.com/turtacn/molsdg/internal/infrastructure/database/redis"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/prometheus"
	minioinfra "github.com/turtacn/molsdg/internal/infrastructure/storage/minio"
	"github.com/turtacn/molsdg/internal/interfaces/http/handlers"
)

// infrastructure holds the optional collaborators of the long-running
// commands. Disabled components stay nil.
type infrastructure struct {
	collector prometheus.MetricsCollector
	metrics   *prometheus.AppMetrics
	redis     *redisinfra.Client
	cache     *redisinfra.LayoutCache
	minio     *minioinfra.Client
	archive   *minioinfra.LayoutArchive
	checkers  []handlers.HealthChecker
	logger    logging.Logger
}

// initInfrastructure connects every enabled component. A component that is
// enabled but unreachable fails startup.
func initInfrastructure(cfg *config.Config, logger logging.Logger) (*infrastructure, error) {
	infra := &infrastructure{logger: logger, metrics: prometheus.NewNoopAppMetrics()}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		infra.collector = collector
		infra.metrics = prometheus.NewAppMetrics(collector)
	}

	if cfg.Redis.Enabled {
		client, err := redisinfra.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.redis = client
		infra.cache = redisinfra.NewLayoutCache(client, logger,
			redisinfra.WithPrefix(cfg.Redis.KeyPrefix),
			redisinfra.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
		infra.checkers = append(infra.checkers, handlers.PingChecker("redis", client.Ping))
	}

	if cfg.MinIO.Enabled {
		client, err := minioinfra.NewClient(cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.minio = client
		infra.archive = minioinfra.NewLayoutArchive(client, logger)
		infra.checkers = append(infra.checkers, client)
	}

	logger.Info("infrastructure initialized",
		logging.Bool("metrics", cfg.Metrics.Enabled),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("minio", cfg.MinIO.Enabled),
	)
	return infra, nil
}

// service builds the layout service over the connected components.
func (i *infrastructure) service(cfg config.LayoutConfig) layoutsvc.Service {
	opts := []layoutsvc.Option{layoutsvc.WithMetrics(i.metrics)}
	if i.cache != nil {
		opts = append(opts, layoutsvc.WithCache(i.cache))
	}
	if i.archive != nil {
		opts = append(opts, layoutsvc.WithArchive(i.archive))
	}
	return layoutsvc.NewService(cfg, i.logger, opts...)
}

// archiveReader returns the archive for the HTTP API, or nil when disabled.
func (i *infrastructure) archiveReader() handlers.ArchiveReader {
	if i.archive == nil {
		return nil
	}
	return i.archive
}

// Close releases every connected component.
func (i *infrastructure) Close() {
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			i.logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if i.minio != nil {
		if err := i.minio.Close(); err != nil {
			i.logger.Warn("failed to close minio client", logging.Err(err))
		}
	}
}

//Personal.AI order the ending
