package main

import (
	"flag"
	"os"
	"time"

	"github.com/emzola/bookshelf/config"
	"github.com/emzola/bookshelf/handler"
	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/emzola/bookshelf/repository"
	"github.com/emzola/bookshelf/repository/postgres"
	"github.com/emzola/bookshelf/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	logger  *jsonlog.Logger
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title  Bookshelf API
// @version 1.0.0
// @description A REST API for managing a catalogue of books.
// @BasePath /
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "Apply database migrations and exit")
	flag.Parse()

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// A missing .env file is fine; the environment may already be populated.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logger.PrintError(err, nil)
	}

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	level, err := jsonlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger = jsonlog.New(os.Stdout, level)

	// Initialize database connection
	db, err := postgres.OpenDB(cfg)
	if err != nil {
		logger.PrintFatal(err, map[string]string{"driver": cfg.Database.Driver, "env": cfg.Server.Env})
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", map[string]string{"driver": cfg.Database.Driver})

	if cfg.Database.Migrate || *migrateOnly {
		err = postgres.Migrate(db, logger)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("database migrations applied", nil)
		if *migrateOnly {
			return
		}
	}

	// Per-client rate limiters, forgotten after three idle minutes
	limiters := ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](3 * time.Minute))
	go limiters.Start()
	defer limiters.Stop()

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, logger, repo)
	handler := handler.New(cfg, logger, limiters, service)

	app := &app{
		config:  cfg,
		logger:  logger,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
