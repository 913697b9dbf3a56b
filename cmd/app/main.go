package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"routeplanner/cmd"
	"routeplanner/internal/adapters/out/postgres/deliveryrepo"
	"routeplanner/internal/adapters/out/postgres/routerepo"
	"routeplanner/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfig(logger)
	gormDB := connectDatabase(config, logger)

	root := cmd.NewCompositionRoot(config, gormDB, logger)

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(root, config.HTTPPort, logger)
}

func getConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	defaults := services.DefaultSpeedProfile()
	return cmd.Config{
		HTTPPort:                envString("HTTP_PORT", "5001"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  envString("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               envString("DB_SSLMODE", "disable"),
		GeocoderBaseURL:         os.Getenv("GEOCODER_BASE_URL"),
		GeocoderAPIKey:          os.Getenv("GEOCODER_API_KEY"),
		GeocoderOfflineFallback: envBool("GEOCODER_OFFLINE_FALLBACK", true),
		SolverBudget:            envDuration("SOLVER_BUDGET", 30*time.Second),
		AvgSpeedKmh:             envFloat("AVG_SPEED_KMH", defaults.AvgSpeedKmh),
		StopDwellMinutes:        envFloat("STOP_DWELL_MINUTES", defaults.StopDwellMinutes),
		MaxConcurrentSolves:     envInt("MAX_CONCURRENT_SOLVES", 0),
	}
}

// connectDatabase opens the postgres connection when configured. A missing
// or unreachable database degrades the service to the in-memory store
// instead of refusing to start.
func connectDatabase(config cmd.Config, logger *slog.Logger) *gorm.DB {
	if config.DBHost == "" {
		logger.Warn("no database configured, running on in-memory store")
		return nil
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Warn("database unavailable, running on in-memory store", "error", err)
		return nil
	}

	err = db.AutoMigrate(
		&routerepo.RouteDTO{},
		&routerepo.RouteStopDTO{},
		&deliveryrepo.DeliveryDTO{},
	)
	if err != nil {
		logger.Warn("database migration failed, running on in-memory store", "error", err)
		return nil
	}

	return db
}

func startWebServer(root cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	root.CreateHTTPServer().RegisterRoutes(e)
	e.GET("/ws/track", root.CreateWSHandler().Serve)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("web server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("web server shutdown failed", "error", err)
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
