package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"traceflow/cmd"
	httpserver "traceflow/internal/adapters/in/http"
	"traceflow/internal/adapters/out/postgres/orderrepo"
	"traceflow/internal/adapters/out/postgres/scanlogrepo"
	"traceflow/internal/adapters/out/postgres/workerrepo"
	"traceflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultSnapshotTTLSeconds = 60

func main() {
	configs := getConfigs()

	gormDB := connectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(app.GetDashboardSnapshotQueryHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// Environment variables win over the optional .env file.
	_ = godotenv.Load(".env")

	ttl := defaultSnapshotTTLSeconds
	if raw := os.Getenv("SNAPSHOT_TTL_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Invalid SNAPSHOT_TTL_SECONDS: %v", err)
		}
		ttl = parsed
	}

	return cmd.Config{
		HTTPPort:           os.Getenv("HTTP_PORT"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          os.Getenv("DB_SSLMODE"),
		PipelineStations:   os.Getenv("PIPELINE_STATIONS"),
		SnapshotTTLSeconds: ttl,
	}
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ProductDTO{},
		&workerrepo.WorkerDTO{},
		&scanlogrepo.ScanLogDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	submitScanHandler, err := app.CreateSubmitScanCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create scan handler: %v", err)
	}

	server := httpserver.NewServer(
		submitScanHandler,
		app.CreateGetScanFeedQueryHandler(),
		app.GetDashboardSnapshotQueryHandler(),
		app.CreateGetWorkerStatsQueryHandler(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
