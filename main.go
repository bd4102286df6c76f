package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"retailforecast/config"
	"retailforecast/database"
	"retailforecast/dataset"
	"retailforecast/forecast"
	"retailforecast/handlers"
	"retailforecast/insight"
	"retailforecast/middleware"
	"retailforecast/models"
	"retailforecast/routes"
)

// loadDataset reads the sales records from PostgreSQL when DATABASE_URL is set,
// otherwise from the CSV file.
func loadDataset(ctx context.Context, cfg config.Config) (*dataset.Dataset, error) {
	var (
		records []models.RawRecord
		source  string
		err     error
	)

	if cfg.DatabaseURL != "" {
		pool, connErr := database.Connect(ctx, cfg.DatabaseURL)
		if connErr != nil {
			return nil, connErr
		}
		defer database.Close(pool)

		records, err = database.LoadSalesRecords(ctx, pool, cfg.SalesTable)
		source = "postgres:" + cfg.SalesTable
	} else {
		records, err = dataset.LoadCSV(cfg.DataFile)
		source = "csv:" + cfg.DataFile
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no sales records found in %s", source)
	}
	return dataset.New(records, source), nil
}

func main() {
	cfg := config.Load()

	data, loadErr := loadDataset(context.Background(), cfg)
	if loadErr != nil {
		log.Printf("❌ [DATASET] %v", loadErr)
	} else {
		log.Printf("✅ [DATASET] Loaded %d records (%s)", data.Len(), data.Source())
	}

	svc := forecast.NewService(
		forecast.WithFitTimeout(cfg.FitTimeout),
		forecast.WithLegacyFrequencyFallback(cfg.LegacyFrequencyFallback),
	)
	gen := insight.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if !gen.Enabled() {
		log.Println("⚠️  GEMINI_API_KEY is not set, forecast insights are disabled")
	}

	h := handlers.New(cfg, data, loadErr, svc, gen)

	app := fiber.New(fiber.Config{
		AppName:      "Retail Forecasting API",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))

	routes.SetupRoutes(app, h)

	log.Fatal(app.Listen(":" + cfg.Port))
}
