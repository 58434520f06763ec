package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql"
	"w9ayt_delivery_server/internal/dao/redis"
	"w9ayt_delivery_server/internal/handler"
	"w9ayt_delivery_server/internal/http_server"
	"w9ayt_delivery_server/internal/infrastructure/logger"
	"w9ayt_delivery_server/internal/service"
	"w9ayt_delivery_server/pkg/util/jwt"
	"w9ayt_delivery_server/pkg/util/snowflake"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	cfg := config.GetConfig()

	if err := logger.Init(&cfg.LogConfig, cfg.MainConfig.Mode); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	jwt.Init(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTokenExpiry, cfg.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(cfg.SnowflakeConfig.MachineID)

	repos := mysql.Init()
	redis.Init()
	cache := redis.GetCache()

	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("validator translator init failed", zap.Error(err))
	}

	services, err := service.NewServices(cfg, repos, cache)
	if err != nil {
		zap.L().Fatal("service wiring failed", zap.Error(err))
	}
	go services.Chat.Start()

	server := http_server.New(cfg, handler.NewHandlers(services))
	go func() {
		if err := server.Run(); err != nil {
			zap.L().Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("http shutdown failed", zap.Error(err))
	}
	if err := services.Chat.Close(); err != nil {
		zap.L().Error("chat shutdown failed", zap.Error(err))
	}
}
