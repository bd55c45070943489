package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"soundpath/internal/core/auth"
	"soundpath/internal/core/cache"
	"soundpath/internal/core/config"
	"soundpath/internal/core/database"
	"soundpath/internal/core/logger"
	"soundpath/internal/core/server"
	"soundpath/internal/oauth"
	"soundpath/internal/repo"
	"soundpath/internal/service"
	"soundpath/internal/transport/http/handler"
	"soundpath/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// Mongo（失败直接 Fatal）
	client, db, err := database.NewMongo(database.Opts{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectTimeoutSec: cfg.Mongo.ConnectTimeoutSec,
	})
	if err != nil {
		log.Fatal("mongo open", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info("mongo connected", zap.String("database", cfg.Mongo.Database))

	// 仓储
	userRepo := repo.NewUserRepo(db, cfg.Mongo.UsersCollection)
	bookRepo := repo.NewBookRepo(db, cfg.Mongo.BooksCollection)
	profileRepo := repo.NewProfileRepo(db, cfg.Mongo.ProfilesCollection)

	// email 唯一索引（注册的 check-then-insert 并发兜底）
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal("ensure user indexes", zap.Error(err))
		}
		cancel()
		log.Info("user indexes ensured")
	}

	// Redis 读缓存（可选）
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLDays) * 24 * time.Hour,
	}

	// Google OAuth
	google := oauth.NewGoogle(
		cfg.OAuth.ClientID,
		cfg.OAuth.ClientSecret,
		time.Duration(cfg.OAuth.RequestTimeoutSec)*time.Second,
	)
	if cfg.OAuth.ClientID == "" {
		log.Warn("oauth client id is empty, /login will return 500")
	}

	// 服务 + 模块
	identity := service.NewIdentity(userRepo, google, jwter)
	books := service.NewBooks(bookRepo, rc)
	profiles := service.NewProfiles(profileRepo)

	reg := router.NewRegistry(
		handler.NewAuth(identity, google, cfg.OAuth.RedirectURI, cfg.OAuth.FrontendURL, log),
		handler.NewBooks(books),
		handler.NewProfiles(profiles),
	)
	r := router.NewAPIEngine(log, reg, cfg.OAuth.FrontendURL)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("soundpath api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("ping", baseURL+"/ping"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("soundpath api start FAILED", zap.Error(err))
		}
	}()
	log.Info("soundpath api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("soundpath api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}
