package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/spendlens/card-spend-tracker/internal/api"
	"github.com/spendlens/card-spend-tracker/internal/categorize"
	"github.com/spendlens/card-spend-tracker/internal/credentials"
	"github.com/spendlens/card-spend-tracker/internal/logger"
	"github.com/spendlens/card-spend-tracker/internal/pipeline"
	"github.com/spendlens/card-spend-tracker/internal/storage"
)

const version = "1.0.0"

const (
	envDB        = "CARD_TRACKER_DB"
	envConfigDir = "CARD_TRACKER_CONFIG_DIR"
	envDataDir   = "CARD_TRACKER_DATA_DIR"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fileFlag := flag.String("file", "", "Statement PDF to parse (bank detected from file name)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of a one-shot parse")
	addrFlag := flag.String("addr", ":8080", "Listen address for -serve")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Spend Tracker

Parses credit card statement PDFs (HDFC, SBI, ICICI, AU), categorizes
spend, reconciles reward points, and exports aggregated reports.

Usage:
  card-spend-tracker -file <statement.pdf> [flags]
  card-spend-tracker -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  CARD_TRACKER_DB             SQLite database path (default data/db.sqlite)
  CARD_TRACKER_CONFIG_DIR     Category config directory (default config)
  CARD_TRACKER_DATA_DIR       Output directory for reports (default data)
  CARD_TRACKER_PASSWORD_FILE  Statement password file
                              (default ~/.card-tracker/passwords.json)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("card-spend-tracker v%s\n", version)
		os.Exit(0)
	}

	// Optional .env; absence is fine.
	godotenv.Load()

	log := logger.New(*debugFlag)

	if *fileFlag == "" && !*serveFlag {
		flag.Usage()
		os.Exit(0)
	}

	dbPath := envOr(envDB, filepath.Join("data", "db.sqlite"))
	configDir := envOr(envConfigDir, "config")
	dataDir := envOr(envDataDir, "data")

	store, err := storage.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()

	runner := &pipeline.Runner{
		Store:       store,
		Categorizer: categorize.Load(log, configDir, filepath.Join("logs", "uncategorized.csv")),
		Credentials: credentials.Load(log),
		DataDir:     dataDir,
		WarningsLog: filepath.Join("logs", "rewardValidationWarnings.csv"),
		Log:         log,
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		fmt.Fprintln(os.Stderr, "interrupted, shutting down")
		store.Close()
		os.Exit(0)
	}()

	if *serveFlag {
		server := &api.Server{Runner: runner}
		app := server.App()
		log.Info().Str("addr", *addrFlag).Msg("starting HTTP API")
		if err := app.Listen(*addrFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	fmt.Printf("Parsing file: %s\n", *fileFlag)
	result, err := runner.ParseFile(*fileFlag)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	fmt.Printf("Inserted %d transactions, %d reward summaries\n", result.InsertedTx, result.InsertedRewards)
	if result.RewardWarnings > 0 {
		fmt.Printf("Reward validation warnings: %d (see logs/rewardValidationWarnings.csv)\n", result.RewardWarnings)
	}
}
