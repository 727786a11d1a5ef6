package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/config"
	"shop-service/internal/codes"
	"shop-service/internal/database"
	"shop-service/internal/logger"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	transport "shop-service/internal/transport/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	gen, err := codes.NewGenerator(cfg.UploadDir)
	if err != nil {
		log.Fatal("init code generator", zap.Error(err))
	}

	authSvc := service.NewAuthService(repos, log)
	if err := authSvc.EnsureDefaultAdmin(context.Background()); err != nil {
		log.Fatal("seed default admin", zap.Error(err))
	}

	svc := transport.Services{
		Auth:          authSvc,
		Catalog:       service.NewCatalogService(repos, gen, gen, log),
		Cart:          service.NewCartService(repos, log),
		Orders:        service.NewOrderServiceFromRepository(repos, log),
		Customers:     service.NewCustomerService(repos),
		Notifications: service.NewNotificationService(repos, log),
	}

	router := transport.Router(svc, cfg.UploadDir, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
