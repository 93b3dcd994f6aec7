package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ycharts_backend/internal/app/di"
	"ycharts_backend/internal/app/router"
	quoteshandler "ycharts_backend/internal/feature/quotes/transport/handler"
	quotesusecase "ycharts_backend/internal/feature/quotes/usecase"
	securitiesadapters "ycharts_backend/internal/feature/securities/adapters"
	securitiesentity "ycharts_backend/internal/feature/securities/domain/entity"
	securitieshandler "ycharts_backend/internal/feature/securities/transport/handler"
	securitiesusecase "ycharts_backend/internal/feature/securities/usecase"
	"ycharts_backend/internal/platform/cache"
	infradb "ycharts_backend/internal/platform/db"
	"ycharts_backend/internal/platform/http/handler"
	jwtmw "ycharts_backend/internal/platform/jwt"
	infraredis "ycharts_backend/internal/platform/redis"
	"ycharts_backend/pkg/ycharts"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg := ycharts.LoadConfig()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	checks := map[string]handler.Check{}

	// Redis（任意）
	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfig(); rcfg.Enabled() {
		tmp, err := infraredis.NewRedisClient(ctx, rcfg)
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// DB（任意）: 銘柄ディレクトリ
	var directoryH *securitieshandler.SecurityHandler
	if os.Getenv("DB_DRIVER") != "" {
		db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), &securitiesentity.Security{})
		if err != nil {
			slog.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		checks["db"] = pingDB(db)
		directoryUC := securitiesusecase.NewSecurityUsecase(securitiesadapters.NewSecurityRepository(db))
		directoryH = securitieshandler.NewSecurityHandler(directoryUC)
	} else {
		slog.Info("DB_DRIVER is not set; directory endpoints disabled")
	}

	// Fetcher（Redisキャッシュでラップ）
	ttl := cache.ParseTTL(os.Getenv("CACHE_TTL"), cache.DefaultTTL)
	fetcher := di.NewFetcher(cfg, rdb, ttl)

	// Usecase / Handler
	quotesH := quoteshandler.NewQuotesHandler(quotesusecase.NewQuotesUsecase(fetcher))

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. /v1 endpoints are not authenticated.")
	}

	// ルータ生成
	var origins []string
	if s := os.Getenv("CORS_ALLOW_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}
	r := router.NewRouter(router.Config{JWTSecret: secret, Checks: checks, CORSOrigins: origins}, quotesH, directoryH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

func pingDB(db *gorm.DB) handler.Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
