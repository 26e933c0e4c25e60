package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salon-booking/internal/core/auth"
	"salon-booking/internal/core/cache"
	"salon-booking/internal/core/config"
	"salon-booking/internal/core/database"
	"salon-booking/internal/core/logger"
	"salon-booking/internal/core/server"
	"salon-booking/internal/domain"
	"salon-booking/internal/repo"
	"salon-booking/internal/storage"
	"salon-booking/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := logger.FromConfig(cfg.App, cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(l, zap.InfoLevel)()
	if cfg.App.Env != "local" && cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, l)
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, domain.Models()...); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}

	// Redis 缓存（可选，连不上则降级为直读 DB）
	var c *cache.Cache
	if cfg.Redis.Enable {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(ctx); err != nil {
			l.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			_ = c.Close()
			c = nil
		}
		cancel()
	}
	if c != nil {
		defer c.Close()
	}

	// 文件存储
	store, err := storage.New(cfg.Upload, cfg.App.HTTP.BaseURL)
	if err != nil {
		l.Fatal("storage init failed", zap.Error(err))
	}
	uploadDir := ""
	if cfg.Upload.Driver == "" || cfg.Upload.Driver == "local" {
		uploadDir = cfg.Upload.Dir
	}

	// JWT
	jwter := auth.FromConfig(cfg.JWT)

	r := router.NewAPIEngine(router.Deps{
		Log:        l,
		HTTP:       cfg.App.HTTP,
		JWT:        jwter,
		Store:      repo.NewStore(db),
		Cache:      c,
		CatalogTTL: time.Duration(cfg.Redis.CatalogTTLSec) * time.Second,
		Storage:    store,
		UploadDir:  uploadDir,
		MaxUpload:  cfg.Upload.MaxSizeMB << 20,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	l.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.String("upload_driver", cfg.Upload.Driver),
		zap.Bool("cache", c != nil),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("shutdown", zap.Error(err))
	}
	l.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
