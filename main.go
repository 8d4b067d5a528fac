package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"qreport/app"
	"qreport/internal"
	"qreport/internal/config"
	"qreport/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level))
	service := app.NewReportService(app.ReportServiceConfig{
		MaxBytes: appConfig.Upload.MaxBytes(),
		Logger:   logger,
	})

	server, err := ui.NewServer(service, ui.Config{
		GinMode:        appConfig.Server.GinMode,
		MaxUploadBytes: appConfig.Upload.MaxBytes(),
	})
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Question Report Sheet Processor on http://localhost:%s", appConfig.Server.Port)
	if err := ui.Serve(ctx, ":"+appConfig.Server.Port, server.Handler(), appConfig.Server.ShutdownTimeout); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
