package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	carhttp "github.com/tair/car-dealership/internal/car/delivery/http"
	cardomain "github.com/tair/car-dealership/internal/car/domain"
	carrepo "github.com/tair/car-dealership/internal/car/repository"
	userhttp "github.com/tair/car-dealership/internal/user/delivery/http"
	userdomain "github.com/tair/car-dealership/internal/user/domain"
	userrepo "github.com/tair/car-dealership/internal/user/repository"
	"github.com/tair/car-dealership/kafka"
	"github.com/tair/car-dealership/pkg/auth"
	"github.com/tair/car-dealership/pkg/database"
	"github.com/tair/car-dealership/pkg/logger"
	"github.com/tair/car-dealership/pkg/tracing"
)

func main() {
	isDev := getEnv("APP_ENV", "development") == "development"
	logger.Init("car-dealership", isDev)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	ctx := context.Background()

	tp, err := tracing.InitTracer("car-dealership")
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	carRepo, userRepo := buildRepositories()
	seedAdmin(userRepo)

	var publisher *kafka.Publisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka publishing disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	var cache *carhttp.ResponseCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis cache disabled")
		} else {
			cache = carhttp.NewResponseCache(client, 5*time.Minute)
			logger.Logger.Info().Str("addr", addr).Msg("Redis response cache enabled")
		}
	}

	router := mux.NewRouter()
	userHandler := userhttp.NewUserHandler(userRepo)
	carHandler := carhttp.NewCarHandler(carRepo, publisher, cache)
	userHandler.RegisterRoutes(router)
	carHandler.RegisterRoutes(router)
	router.HandleFunc("/health", carHandler.HealthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := carhttp.TracingMiddleware("car-dealership-http",
		carhttp.LoggingMiddleware(c.Handler(router)))

	port := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		logger.Logger.Info().Str("port", port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

// buildRepositories selects the storage backing. Memory is the default,
// matching the reference deployment; Postgres is the durable option
// behind the same interfaces.
func buildRepositories() (cardomain.CarRepository, userdomain.UserRepository) {
	if getEnv("STORAGE_DRIVER", "memory") != "postgres" {
		logger.Logger.Info().Msg("Using in-memory storage")
		return carrepo.NewMemoryCarRepository(), userrepo.NewMemoryUserRepository()
	}

	cfg := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "dealership"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	cars := carrepo.NewGormCarRepository(db)
	if err := cars.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run car migrations")
	}
	users := userrepo.NewGormUserRepository(db)
	if err := users.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
	}

	logger.Logger.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("Using Postgres storage")
	return cars, users
}

// seedAdmin creates the administrator account when ADMIN_PASSWORD is
// configured and the username is not taken. Registration never produces
// admins, so this is the only way one comes to exist.
func seedAdmin(repo userdomain.UserRepository) {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Logger.Info().Msg("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	username := getEnv("ADMIN_USERNAME", "admin")

	if _, err := repo.FindByUsername(username); err == nil {
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to hash admin password")
	}
	admin := &userdomain.User{
		Username: username,
		Password: hash,
		IsAdmin:  true,
	}
	if err := repo.Create(admin); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed admin user")
	}
	logger.Logger.Info().Str("username", username).Msg("Admin account seeded")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
