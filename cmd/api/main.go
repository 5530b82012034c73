package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"contacts-api/internal/config"
	"contacts-api/internal/db"
	"contacts-api/internal/email"
	apihttp "contacts-api/internal/http"
	"contacts-api/internal/repository"
	"contacts-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	// Politicas observadas: crear contactos 2 req/min, el resto 5 req/min.
	createLimiter := service.NewMemoryRequestLimiter(time.Minute, 2)
	contactLimiter := service.NewMemoryRequestLimiter(time.Minute, 5)
	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			createLimiter = service.NewRedisRequestLimiter(redisClient, "contacts_create", time.Minute, 2)
			contactLimiter = service.NewRedisRequestLimiter(redisClient, "contacts", time.Minute, 5)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender, jwtSvc, cfg.BaseURL)
	contactSvc := service.NewContactService(logger, contactRepo)
	birthdays := service.NewDayScanQuerier(contactRepo)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		JWTService:     jwtSvc,
		UserHandler:    apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		ContactHandler: apihttp.NewContactHandler(logger, contactSvc, birthdays),
		HealthHandler:  apihttp.NewHealthHandler(logger, pool),
		CreateLimiter:  createLimiter,
		ContactLimiter: contactLimiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
