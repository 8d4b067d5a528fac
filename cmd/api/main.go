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
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service := app.NewReportService(app.ReportServiceConfig{
		MaxBytes: appConfig.Upload.MaxBytes(),
		Logger:   internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level)),
	})
	api := ui.NewApp(service, ui.Config{
		MaxUploadBytes: appConfig.Upload.MaxBytes(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting API server on :%s", appConfig.Server.APIPort)
	if err := ui.Serve(ctx, ":"+appConfig.Server.APIPort, api.Handler(), appConfig.Server.ShutdownTimeout); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
