package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidshelf/config"
	"vidshelf/database"
	routes "vidshelf/internal/app/http"
	"vidshelf/internal/app/http/middleware"
	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/ratelimit"
	"vidshelf/internal/infra/stripegw"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	logging.Configure(config.IsProduction(), config.LOG_LEVEL)
	log := logging.Log

	if err := config.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.InitDB(config.DB_URL); err != nil {
		log.WithError(err).Fatal("database init failed")
	}

	if config.BILLING_SIMULATION {
		log.Warn("BILLING_SIMULATION enabled: checkout activates subscriptions without Stripe")
	} else {
		stripegw.Use(stripegw.NewClient(config.STRIPE_SECRET_KEY))
	}
	if config.STRIPE_WEBHOOK_SECRET == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set: /webhook will reject every delivery")
	}

	store, closeStore := rateLimitStore(log)
	defer closeStore()
	limiter, err := ratelimit.New(store, config.RATE_LIMIT_REQUESTS, config.RATE_LIMIT_WINDOW)
	if err != nil {
		log.WithError(err).Fatal("rate limiter init failed")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS before routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, limiter)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
