package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/press-analyzer/backend/internal/api"
	"github.com/press-analyzer/backend/internal/config"
	"github.com/press-analyzer/backend/internal/cycle"
	"github.com/press-analyzer/backend/internal/session"
	"github.com/press-analyzer/backend/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	configPath := os.Getenv("PRESS_ANALYZER_CONFIG")
	if configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get executable path")
		}
		configPath = filepath.Join(filepath.Dir(exePath), "press-analyzer.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directories")
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadDirectory)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	sessions := session.NewManager(session.Options{
		TempDir:               cfg.Storage.TempDirectory,
		AssumedPumpEfficiency: cfg.Reconstruction.AssumedPumpEfficiency,
		LargeSeriesThreshold:  cfg.Processing.LargeSeriesThreshold,
		Files:                 fileStore,
	})

	// Background session cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessions.CleanupOldSessions(time.Duration(cfg.Processing.SessionTimeoutMinutes) * time.Minute)
		}
	}()

	sim := cycle.New(cycle.Config{
		StepSeconds:        cfg.Simulation.StepSeconds,
		VariationAmplitude: cfg.Simulation.VariationAmplitude,
	})

	h := api.NewHandler(fileStore, sessions, sim, Version)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Processing.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/status") ||
				strings.HasSuffix(path, "/keepalive") ||
				path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.Contains(path, "/upload") ||
				strings.Contains(path, "/export") ||
				strings.Contains(path, "/monitor/ws")
		},
		ErrorMessage: "Request timeout - query took too long",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Compressing the socket upgrade or msgpack payloads is wasted work.
			path := c.Request().URL.Path
			return strings.Contains(path, "/monitor/ws") ||
				strings.HasSuffix(path, "/msgpack")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Info().
		Str("version", Version).
		Str("buildTime", BuildTime).
		Str("config", configPath).
		Str("listen", cfg.GetServerAddr()).
		Str("dataDir", cfg.Storage.DataDirectory).
		Msg("press cycle analyzer server starting")

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
