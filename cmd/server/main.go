// Package main initializes and starts the tournament platform's dev auth API,
// setting up configuration, logging, the database, repositories, services,
// handlers and metrics.
package main

import (
	"cmp"
	"database/sql"
	"fmt"
	"os"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/config"
	"github.com/atinyakov/tourney/internal/db"
	"github.com/atinyakov/tourney/internal/logger"
	"github.com/atinyakov/tourney/internal/metrics"
	"github.com/atinyakov/tourney/internal/repository"
	"github.com/atinyakov/tourney/internal/server/handler/http"
	"github.com/atinyakov/tourney/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Open the database and build the matching repository.
	var (
		conn     *sql.DB
		authRepo *repository.UserRepository
	)
	switch options.DBAdapter {
	case config.AdapterPostgres:
		conn, err = db.InitPostgres(options.DatabaseDSN)
		if err == nil {
			authRepo = repository.NewPostgresAuthRepository(conn)
		}
	default:
		conn, err = db.InitSQLite(options.SQLiteFile)
		if err == nil {
			authRepo = repository.NewSQLiteAuthRepository(conn)
		}
	}
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.String("adapter", options.DBAdapter), zap.Error(err))
	}
	defer conn.Close()

	if options.JWTSecret == config.DefaultJWTSecret {
		zapLogger.Warn("using the default JWT secret; set JWT_SECRET outside development")
	}

	// Initialize business-logic services.
	tokens := service.NewTokenIssuer(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuthService(authRepo, tokens)

	// Register metrics collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// Create HTTP handlers and build the router.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	userHandler := &http.UserHandler{}
	router := http.NewRouter(authHandler, userHandler, authService, reg, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Port),
		zap.String("db_adapter", options.DBAdapter),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
