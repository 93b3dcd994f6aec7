package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ycharts_backend/internal/app/di"
	securitiesentity "ycharts_backend/internal/feature/securities/domain/entity"
	infradb "ycharts_backend/internal/platform/db"
	infraredis "ycharts_backend/internal/platform/redis"
	"ycharts_backend/pkg/ycharts"
)

// defaultRatePerMinute は一覧APIへの1分あたりのリクエスト上限です。
const defaultRatePerMinute = 60

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd は ingest コマンドを組み立てます。
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ingest",
		Short:        "Load the YCharts security directory into the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, _ := cmd.Flags().GetStringSlice("resources")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			rate, _ := cmd.Flags().GetInt("rate")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runIngest(ctx, resources, rate)
		},
	}
	cmd.Flags().StringSlice("resources", []string{"companies", "mutual_funds", "indicators"}, "resources to ingest")
	cmd.Flags().Duration("timeout", 30*time.Minute, "overall ingest timeout")
	cmd.Flags().Int("rate", rateFromEnv(), "list requests per minute (default $INGEST_RATE_LIMIT or 60)")
	return cmd
}

func rateFromEnv() int {
	if n, err := strconv.Atoi(os.Getenv("INGEST_RATE_LIMIT")); err == nil {
		return n
	}
	return defaultRatePerMinute
}

// runIngest は一覧を取り込み、成功後に該当リソースのキャッシュを破棄します。
func runIngest(ctx context.Context, resources []string, rate int) error {
	cfg := ycharts.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dbCfg := infradb.LoadConfigFromEnv()
	dbCfg.RunMigrations = true
	db, err := infradb.OpenDB(dbCfg, &securitiesentity.Security{})
	if err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	uc := di.NewIngestUsecase(cfg, db, rate)
	if err := uc.IngestAll(ctx, resources); err != nil {
		return fmt.Errorf("ingest finished with errors: %w", err)
	}

	// 一覧ページのキャッシュを破棄（Redisが設定されている場合のみ）
	if rcfg := infraredis.LoadConfig(); rcfg.Enabled() {
		if rdb, err := infraredis.NewRedisClient(ctx, rcfg); err == nil {
			fetcher := di.NewFetcher(cfg, rdb, 0)
			for _, r := range resources {
				if err := fetcher.InvalidateResource(ctx, r); err != nil {
					slog.Warn("failed to invalidate cache", "resource", r, "error", err)
				}
			}
			_ = rdb.Close()
		} else {
			slog.Warn("redis unavailable; cache not invalidated", "error", err)
		}
	}
	slog.Info("ingest ok", "resources", resources)
	return nil
}
