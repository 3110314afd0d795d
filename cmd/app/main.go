package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"resultsift/internal/classify"
	"resultsift/internal/handlers"
	"resultsift/internal/ingest"
	"resultsift/internal/ledger"
	"resultsift/internal/screen"
)

func main() {
	log := newLogger()

	// Load .env file if it exists (local dev)
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	ctx := context.Background()

	store, cleanup := newStore(ctx, log)
	defer cleanup()

	minMarketCap := classify.DefaultMinMarketCap
	if raw := os.Getenv("MIN_MARKET_CAP"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			minMarketCap = v
		} else {
			log.Warn().Str("value", raw).Msg("invalid MIN_MARKET_CAP, using default")
		}
	}

	builder := ingest.NewBuilder(log)
	engine := classify.NewEngine(minMarketCap)
	writer := ledger.NewWriter(store, log)
	svc := screen.New(builder, engine, writer, log)

	// Setup Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.Int("status", v.Status).Str("uri", v.URI).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	h := handlers.New()
	ch := handlers.NewClassifyHandler(svc, log)

	e.GET("/", h.Index)
	e.GET("/health", h.Health)
	e.POST("/classify", ch.Classify)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := e.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	var out = zerolog.New(os.Stdout)
	if os.Getenv("LOG_FORMAT") == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return out.Level(level).With().Timestamp().Logger()
}

// newStore picks the ledger backing from LEDGER_BACKEND: postgres, sheets
// or memory. A misconfigured or unreachable backing degrades to memory so
// the service still comes up for inspection.
func newStore(ctx context.Context, log zerolog.Logger) (ledger.Store, func()) {
	cleanup := func() {}

	switch os.Getenv("LEDGER_BACKEND") {
	case "sheets":
		store, err := ledger.NewSheetsStore(ctx,
			os.Getenv("SHEETS_CREDENTIALS_FILE"),
			os.Getenv("SHEETS_SPREADSHEET_ID"),
		)
		if err != nil {
			log.Warn().Err(err).Msg("could not init sheets store, falling back to memory")
			break
		}
		log.Info().Msg("using google sheets ledger")
		return store, cleanup

	case "postgres", "":
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			log.Warn().Msg("DATABASE_URL not set, falling back to memory ledger")
			break
		}
		if err := ledger.RunMigrations(databaseURL); err != nil {
			log.Warn().Err(err).Msg("could not run migrations")
		} else {
			log.Info().Msg("migrations completed")
		}
		pool, err := ledger.Connect(ctx, databaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("could not connect to database, falling back to memory")
			break
		}
		log.Info().Msg("using postgres ledger")
		return ledger.NewPostgresStore(pool), pool.Close
	}

	return ledger.NewMemoryStore(), cleanup
}
