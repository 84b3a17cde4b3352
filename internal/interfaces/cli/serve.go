package cli

import (
	"context"

	"github.com/spf13/cobra"

	layoutsvc "github.com/turtacn/molsdg/internal/application/layout"
	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/molsdg/internal/interfaces/http"
	"github.com/turtacn/molsdg/internal/interfaces/http/handlers"
	"github.com/turtacn/molsdg/pkg/errors"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cliCtx.Config
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), &cfg, cliCtx.Logger, reloadSettings{
				configPath: cliCtx.ConfigPath,
				logLevel:   cliCtx.LogLevel,
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

// reloadSettings controls live configuration reloads of the server.
type reloadSettings struct {
	// configPath is watched when set.
	configPath string
	// logLevel pins the log level across reloads when set.
	logLevel string
}

// runServe serves the API until ctx is cancelled, then drains in-flight
// requests.
func runServe(ctx context.Context, cfg *config.Config, logger logging.Logger, reload reloadSettings) error {
	infra, err := initInfrastructure(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc := infra.service(cfg.Layout)
	if err := watchConfig(reload, logger, svc); err != nil {
		return err
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		LayoutHandler: handlers.NewLayoutHandler(svc, infra.archiveReader(), logger, cfg.Server.MaxBodySize),
		HealthHandler: handlers.NewHealthHandler(Version, logger, infra.checkers,
			handlers.WithHealthMetrics(infra.metrics)),
		CORSOrigins:      cfg.Server.CORSAllowedOrigins,
		Logger:           logger,
		Metrics:          infra.metrics,
		MetricsCollector: infra.collector,
		MetricsPath:      cfg.Metrics.Path,
	})

	return serveUntilDone(ctx, httpapi.NewServer(cfg.Server, router, logger), logger)
}

// watchConfig re-reads reload.configPath on every write and applies the log
// level and layout tunables without a restart. Server, cache and broker
// settings still need one.
func watchConfig(reload reloadSettings, logger logging.Logger, svc layoutsvc.Service) error {
	if reload.configPath == "" {
		return nil
	}
	tunable, _ := svc.(layoutsvc.Reconfigurable)
	err := config.Watch(reload.configPath,
		func(cfg *config.Config) { applyReload(cfg, reload, logger, tunable) },
		func(err error) {
			logger.Warn("config reload rejected", logging.String("path", reload.configPath), logging.Err(err))
		},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "config watch failed").WithDetail("path=" + reload.configPath)
	}
	logger.Info("watching config for changes", logging.String("path", reload.configPath))
	return nil
}

// applyReload applies the reloadable parts of cfg.
func applyReload(cfg *config.Config, reload reloadSettings, logger logging.Logger, tunable layoutsvc.Reconfigurable) {
	level := cfg.Log.Level
	if reload.logLevel != "" {
		level = reload.logLevel
	}
	if !logging.SetLevel(logger, level) {
		logger.Debug("logger does not support level changes")
	}
	if tunable != nil {
		tunable.Reconfigure(cfg.Layout)
	}
	logger.Info("configuration reloaded",
		logging.String("path", reload.configPath),
		logging.String("log_level", level),
	)
}

// serveUntilDone runs server until ctx is cancelled or the server fails.
func serveUntilDone(ctx context.Context, server *httpapi.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

//Personal.AI order the ending
