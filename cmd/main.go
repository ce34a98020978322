package main

//
//  @title           SpesaSmart Pricing API
//  @version         1.0
//  @description     Best prices, price history, monthly trends and watchlist deals across Italian supermarket chains.
//  @termsOfService  https://spesasmart.it/terms
//  @contact.name    API Support
//  @contact.email   support@spesasmart.it
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @securityDefinitions.apikey  BearerAuth
//  @in                          header
//  @name                        Authorization
//
//  @tag.name        products
//  @tag.description Best price, history, trends, indicator and chain comparison per product
//
//  @tag.name        chains
//  @tag.description Supermarket chains
//
//  @tag.name        users
//  @tag.description Endpoints of the authenticated user
//
//  @tag.name        health
//  @tag.description Liveness and readiness checks

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spesasmart/pricing/config"
	_ "github.com/spesasmart/pricing/docs" // swagger docs
	"github.com/spesasmart/pricing/internal/app"
	"github.com/spesasmart/pricing/internal/ingestion"
	"github.com/spesasmart/pricing/internal/logger"
)

// cliOptions are the command line flags.
type cliOptions struct {
	Mode     string
	Dir      string
	Parallel int
	Force    bool
	Port     string
}

// parseFlags reads the command line; defaultPort comes from SERVER_PORT.
func parseFlags(args []string, defaultPort string) (cliOptions, error) {
	var o cliOptions
	fs := flag.NewFlagSet("spesasmart", flag.ContinueOnError)
	fs.StringVar(&o.Mode, "mode", "api", "Mode: api, ingest or migrate")
	fs.StringVar(&o.Dir, "dir", "./data/offers", "Directory with offer .csv exports (ingest)")
	fs.IntVar(&o.Parallel, "parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	fs.BoolVar(&o.Force, "force", false, "Reload files even if already ingested (deletes their existing offers)")
	fs.StringVar(&o.Port, "port", defaultPort, "Port for API mode")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.Mode {
	case "api", "ingest", "migrate":
	default:
		return o, fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.Parallel < 0 {
		return o, fmt.Errorf("parallel must be >= 0")
	}
	return o, nil
}

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (DB and Redis connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runIngest loads the offer exports of dir and drops cached prices of the
// products it touched.
func runIngest(ctx context.Context, o cliOptions) error {
	stores, err := app.OpenStores(config.AppConfig)
	if err != nil {
		return err
	}
	defer stores.Close()

	opts := ingestion.Options{Parallel: o.Parallel, Force: o.Force}
	if stores.Cache != nil {
		opts.Cache = stores.Cache
	}
	return ingestion.ProcessDirectory(ctx, o.Dir, stores.DB, opts)
}

func runMigrate() error {
	db, err := app.InitPostgres(config.AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return app.RunMigrations(db)
}

// main is the entry point of the pricing service.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API (default).
//   - ingest:  Loads every .csv offer export found in --dir.
//   - migrate: Applies the embedded goose migrations and exits.
//
// Flags:
//   - --mode:     Execution mode ("api", "ingest" or "migrate"). Default: "api".
//   - --dir:      Directory containing .csv offer exports. Default: "./data/offers".
//   - --parallel: Concurrent files in ingest mode (0 = auto).
//   - --force:    Reload files already recorded in the ingestion log.
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	opts, err := parseFlags(os.Args[1:], config.AppConfig.Server.Port)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid flags")
	}

	switch opts.Mode {
	case "ingest":
		logger.L().Info().Str("dir", opts.Dir).Msg("running ingestion")
		if err := runIngest(ctx, opts); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "migrate":
		logger.L().Info().Msg("running migrations")
		if err := runMigrate(); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}
		logger.L().Info().Msg("migrations applied")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, opts.Port)
		gracefulShutdown(ctx, server, cleanup)
	}
}
