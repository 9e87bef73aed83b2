package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/core/auth"
	"taskboard/internal/core/cache"
	"taskboard/internal/core/config"
	"taskboard/internal/core/database"
	"taskboard/internal/core/logger"
	"taskboard/internal/core/server"
	"taskboard/internal/repo"
	"taskboard/internal/service"
	"taskboard/internal/transport/http/handler"
	"taskboard/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(logger.FromConfig(cfg.Log))
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	// 存储（memory 不连数据库）
	stores, err := repo.Open(dbOpts(cfg.DB), cfg.DB.AutoMigrate)
	if err != nil {
		log.Fatal("store open", zap.Error(err))
	}
	defer stores.Close()
	log.Info("store ready", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	// 统计缓存（可选）
	taskOpts := []service.TaskOption{service.WithTaskLogger(log)}
	if cfg.Redis.Enabled() {
		rc := cache.NewStore(cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			log.Warn("redis unreachable, stats cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			taskOpts = append(taskOpts, service.WithStatsCache(cache.NewStatsCache(rc, cfg.Redis.StatsTTL())))
			log.Info("stats cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.StatsTTL()))
		}
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}
	if cfg.JWT.UsingDefaultSecret() {
		log.Warn("JWT_SECRET not set, using the built-in development secret")
	}

	users := service.NewUserService(stores.Users,
		service.WithBcryptCost(cfg.Auth.BcryptCost),
		service.WithHashConcurrency(cfg.Auth.HashConcurrency),
	)
	tasks := service.NewTaskService(stores.Tasks, taskOpts...)

	// 路由
	r := router.NewAPIEngine(router.Deps{
		Log:      log,
		HTTP:     cfg.App.HTTP,
		Verifier: jwter,
		Modules: []router.Module{
			handler.NewHealthHandler(users, tasks, cfg.JWT.UsingDefaultSecret()),
			handler.NewAuthHandler(users, jwter),
			handler.NewTaskHandler(tasks),
		},
	})

	// HTTP Server
	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	secretMode := "custom"
	if cfg.JWT.UsingDefaultSecret() {
		secretMode = "default"
	}
	log.Info("taskboard api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/api/health"),
		zap.String("jwt_secret", secretMode),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil {
			log.Fatal("taskboard api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	if err := server.Shutdown(srv, 10*time.Second); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("taskboard api stopped gracefully")
}

func dbOpts(c config.DB) database.Opts {
	return database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
	}
}
