package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/molsdg/internal/config"
	redisinfra "github.com/turtacn/molsdg/internal/infrastructure/database/redis"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
)

// layoutKeyPrefix is the prefix of every key the layout service caches under.
const layoutKeyPrefix = "layout:"

// NewCacheCmd creates the cache command group.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis layout cache",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newCachePurgeCmd())
	return cmd
}

func newCachePurgeCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached layouts",
		Long: `Delete cached layouts from Redis. Run it after upgrading molsdg so that
layouts computed by an older release are not served until they expire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			res, err := purgeCache(ctx, cliCtx.Config.Redis, cliCtx.Logger, prefix)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", layoutKeyPrefix, "key prefix to delete, below the configured redis.key_prefix")
	return cmd
}

// purgeResult reports one cache purge.
type purgeResult struct {
	Prefix  string `json:"prefix"`
	Deleted int64  `json:"deleted"`
}

func (r purgeResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "deleted %d cached entries under %q\n", r.Deleted, r.Prefix)
	return err
}

func purgeCache(ctx context.Context, cfg config.RedisConfig, logger logging.Logger, prefix string) (purgeResult, error) {
	if !cfg.Enabled {
		return purgeResult{}, errors.New(errors.ErrCodeValidation, "redis is disabled").WithDetail("set redis.enabled to purge the cache")
	}
	client, err := redisinfra.NewClient(cfg, logger)
	if err != nil {
		return purgeResult{}, err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", logging.Err(err))
		}
	}()

	cache := redisinfra.NewLayoutCache(client, logger, redisinfra.WithPrefix(cfg.KeyPrefix))
	n, err := cache.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return purgeResult{}, errors.Wrap(err, errors.ErrCodeCacheError, "cache purge failed").WithDetailf("deleted=%d", n)
	}
	logger.Info("layout cache purged", logging.String("prefix", cfg.KeyPrefix+prefix), logging.Int64("deleted", n))
	return purgeResult{Prefix: prefix, Deleted: n}, nil
}

//Personal.AI order the ending
