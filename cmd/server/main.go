package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/api"
	"github.com/d60-Lab/photoshare/internal/api/handler"
	"github.com/d60-Lab/photoshare/internal/cache"
	"github.com/d60-Lab/photoshare/internal/repository"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/database"
	"github.com/d60-Lab/photoshare/pkg/logger"
	"github.com/d60-Lab/photoshare/pkg/token"
	"github.com/d60-Lab/photoshare/pkg/tracing"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

// @title Photoshare API
// @version 1.0
// @description 社交照片分享服务 API
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Otel.Endpoint != "" {
		shutdown, err := tracing.Init(ctx, cfg.Otel.Endpoint, "photoshare")
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() {
				c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(c)
			}()
		}
	}

	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		panic(err)
	}

	// Redis 可选：地址为空则计数缓存旁路
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, counter cache disabled", zap.Error(err))
			rdb = nil
		}
		cancel()
	}
	counters := cache.NewCounters(rdb, cfg.Redis.TTL)

	// repositories & services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	codec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.TTL)
	relSvc := service.NewRelationshipService(followRepo, counters)
	store := must(service.NewDiskStore(cfg.Upload.Dir, cfg.Upload.BaseURL))

	h := handler.NewHandler(
		service.NewAuthService(userRepo, codec),
		service.NewPostService(postRepo, likeRepo, counters),
		service.NewUserService(userRepo, relSvc),
		relSvc,
		service.NewAdminService(userRepo, postRepo),
		service.NewUploadService(store, cfg.Upload.MaxSize),
		cfg.Admin,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(cfg, h, codec),
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
