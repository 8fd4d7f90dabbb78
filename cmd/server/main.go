// Package main provides the VSOP87 positions HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"

	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/adapter/store/file"
	"go.ngs.io/vsop87-api/internal/adapter/store/grid"
	"go.ngs.io/vsop87-api/internal/config"
	httpHandler "go.ngs.io/vsop87-api/internal/http"
	"go.ngs.io/vsop87-api/internal/logging"
	"go.ngs.io/vsop87-api/internal/usecase"
)

const version = "0.1.0"

// preloadTimeout bounds start-up parsing of coefficient files.
const preloadTimeout = 2 * time.Minute

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to a config file (YAML, JSON or TOML)")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("vsop87-api version %s\n", version)
		return
	}

	// Load configuration from environment and optional file.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error(err, "Server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logr.Logger) error {
	log.Info("Starting VSOP87 API server", "version", version, "port", cfg.Port,
		"dataDir", cfg.DataDir, "gridDir", cfg.GridDir)

	// Load body catalog.
	catalog := file.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		if catalog, err = file.LoadCatalog(cfg.CatalogPath); err != nil {
			return err
		}
		log.Info("Loaded body catalog", "path", cfg.CatalogPath, "bodies", len(catalog.Bodies()))
	}

	// Initialize stores.
	seriesStore := file.NewStore(cfg.DataDir, catalog, log)
	if cfg.Preload {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		if err := seriesStore.Preload(ctx, nil); err != nil {
			return fmt.Errorf("failed to preload coefficient tables: %w", err)
		}
	}

	// Grid store is optional.
	var gridLoader store.ModelLoader
	if cfg.GridDir != "" {
		gridLoader = grid.NewStore(cfg.GridDir)
		log.Info("Grid store enabled", "dir", cfg.GridDir)
	} else {
		log.Info("Grid store disabled (no grid directory configured)")
	}

	// Initialize use case.
	positionUC := usecase.NewPositionUseCase(seriesStore, gridLoader, log)

	// Setup router.
	router := httpHandler.SetupRouter(positionUC, cfg.CORSAllowedOrigins, log)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("Server listening", "addr", addr,
		"endpoints", []string{"GET /health", "GET /v1/bodies", "GET /v1/positions"})

	if err := router.Run(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("VSOP87 API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  vsop87-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config PATH   Read settings from a config file (environment wins)")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DATA_DIR                VSOP87D data directory (default: ./data/vsop87)")
	fmt.Println("  GRID_DIR                NetCDF ephemeris grid directory (optional)")
	fmt.Println("  CATALOG_PATH            YAML body catalog (default: built-in eight planets)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               error, info, debug or trace (default: info)")
	fmt.Println("  PRELOAD                 Parse all available files at start-up (default: true)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  vsop87-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port with precomputed grids")
	fmt.Println("  PORT=3000 GRID_DIR=./data/grids vsop87-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                    Health check")
	fmt.Println("  GET /v1/bodies                 List bodies and term counts")
	fmt.Println("  GET /v1/positions              Get heliocentric positions")
	fmt.Println()
}
