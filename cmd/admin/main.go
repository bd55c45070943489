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
	"soundpath/internal/core/config"
	"soundpath/internal/core/database"
	"soundpath/internal/core/logger"
	"soundpath/internal/core/server"
	"soundpath/internal/repo"
	"soundpath/internal/transport/http/handler"
	"soundpath/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

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

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLDays) * 24 * time.Hour,
	}

	userRepo := repo.NewUserRepo(db, cfg.Mongo.UsersCollection)
	reg := router.NewRegistry(handler.NewAdmin(userRepo))
	r := router.NewAdminEngine(log, reg, jwter)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("admin_v1", baseURL+"/admin/v1"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}
