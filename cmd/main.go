package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"krishimitra/internal/handlers"
	"krishimitra/internal/logger"
	"krishimitra/internal/repository"
	"krishimitra/internal/repository/db"
	"krishimitra/internal/server"
	"krishimitra/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultSimTick    = 5 * time.Second
	defaultProbeTick  = 15 * time.Second
	defaultSigningKey = "change-me-in-config"
)

func main() {
	// load config.yml first so the log level is honored
	if err := loadConfig(); err != nil {
		// config is optional in dev; fall back to defaults
		logger.Get(logger.InfoLevel).Infow("no config file found; using defaults", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, log, serviceConfig())
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// demo sensor drift (disabled via sim.enabled: false)
	if viper.GetBool("sim.enabled") {
		go services.Simulator.Run(ctx, simTick())
	}

	// offline→online probe loop with queue replay
	go services.Gateway.RunHealthLoop(ctx, probeTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("sim.enabled", true)
	viper.SetDefault("remote.attempts", 2)
	viper.SetDefault("remote.timeout_ms", 3000)
	return viper.ReadInConfig()
}

// serviceConfig assembles the service tunables from viper, applying the
// documented defaults for anything unset.
func serviceConfig() service.Config {
	irrigation := service.DefaultIrrigationConfig()
	if viper.IsSet("irrigation.extra_temp_c") {
		irrigation.ExtraTempC = viper.GetFloat64("irrigation.extra_temp_c")
	}
	if viper.IsSet("irrigation.extra_mm") {
		irrigation.ExtraAmountMm = viper.GetFloat64("irrigation.extra_mm")
	}
	if viper.IsSet("irrigation.base_mm") {
		irrigation.BaseAmountMm = viper.GetFloat64("irrigation.base_mm")
	}

	remote := service.DefaultRemoteConfig()
	remote.BaseURL = viper.GetString("remote.base_url")
	remote.MaxAttempts = viper.GetInt("remote.attempts")
	if ms := viper.GetInt("remote.timeout_ms"); ms > 0 {
		remote.AttemptTimeout = time.Duration(ms) * time.Millisecond
	}

	signingKey := viper.GetString("auth.signing_key")
	if signingKey == "" {
		signingKey = defaultSigningKey
	}

	return service.Config{
		Irrigation: irrigation,
		Remote:     remote,
		SigningKey: signingKey,
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "farm.db")
		dbPath = "farm.db"
	}
	return db.InitDB(dbPath)
}

func simTick() time.Duration {
	if s := viper.GetInt("sim.tick_seconds"); s > 0 {
		return time.Duration(s) * time.Second
	}
	return defaultSimTick
}

func probeTick() time.Duration {
	if s := viper.GetInt("remote.probe_seconds"); s > 0 {
		return time.Duration(s) * time.Second
	}
	return defaultProbeTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
