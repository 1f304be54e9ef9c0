package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gemstore_server/internal/dao/db"
	myredis "gemstore_server/internal/dao/redis"
	ws "gemstore_server/internal/gateway/websocket"
	"gemstore_server/internal/handler"
	"gemstore_server/internal/https_server"
	"gemstore_server/internal/infrastructure/logger"
	"gemstore_server/internal/service"
	"gemstore_server/internal/service/chat"
	"gemstore_server/internal/service/image"
	"gemstore_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	// 1. 加载配置
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	// 2. 初始化日志
	if err := logger.Init(&cfg.LogConfig, cfg.MainConfig.Mode); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zap.L().Sync() }()
	if cfg.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 初始化 JWT 与参数校验翻译
	if cfg.JWTConfig.Secret == "" {
		return errors.New("jwt secret is empty, set jwtConfig.secret or JWT_SECRET")
	}
	jwt.Init(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTokenExpiry, cfg.JWTConfig.RefreshTokenExpiry)
	if err := handler.InitTrans("zh"); err != nil {
		return fmt.Errorf("init validator translator: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. 初始化数据库
	repos, err := db.Init(&cfg.DatabaseConfig)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	// 5. 初始化 Redis（可选）
	var cache myredis.CacheService
	redisCache, err := myredis.Init(ctx, &cfg.RedisConfig)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	if redisCache != nil {
		defer func() { _ = redisCache.Close() }()
		repos.WithOrderCache(redisCache)
		cache = redisCache
		zap.L().Info("redis cache enabled")
	}

	// 6. 图片存储
	storage, err := image.NewStorage(ctx, &cfg.S3Config, &cfg.StaticSrcConfig)
	if err != nil {
		return fmt.Errorf("init image storage: %w", err)
	}

	// 7. 实时推送
	chatServer := chat.NewChatServer(cfg.KafkaConfig)
	chatServer.Start(ctx)
	defer chatServer.Close()

	// 8. Service / Handler / Router
	svc := service.NewServices(service.Deps{
		Repos:  repos,
		Cache:  cache,
		Broker: chatServer.Broker,
		Images: storage,
		Config: cfg.MessagingConfig,
	})
	gw := ws.NewGateway(chatServer.Broker, svc.Core, cfg.MessagingConfig)
	engine := https_server.Init(handler.NewHandlers(svc, gw, cfg.MessagingConfig), cfg)

	// 9. 启动服务
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MainConfig.Host, cfg.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("mode", chatServer.Mode()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server running fault: %w", err)
		}
	case <-ctx.Done():
	}

	zap.L().Info("关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
	return nil
}
