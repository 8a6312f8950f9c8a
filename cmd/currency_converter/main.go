package main

import (
	"context"
	"github.com/langowen/currency_converter/deploy/config"
	converterApp "github.com/langowen/currency_converter/internal/currency_converter/app"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())

	app := converterApp.NewConverterApp(cfg)
	appDone, err := app.Start(ctx)
	if err != nil {
		cancel()
		log.Fatalln("Failed to start application", "error", err)
	}

	done := make(chan os.Signal, 1)

	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-done
	slog.Info("Gracefully shutting down")

	cancel()
	slog.Info("stopping server")

	<-appDone
	slog.Info("server stopped")
}
