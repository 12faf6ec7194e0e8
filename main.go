package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barstack/internal/config"
	"barstack/internal/container"
	"barstack/ui"

	"github.com/gin-gonic/gin"
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
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	// A load failure is served as "Chart failed to load" rather than exiting.
	if err := appContainer.LoadDatasets(context.Background()); err != nil {
		appContainer.Logger.Error("chart failed to load: %v", err)
	}
	hub := appContainer.InitSSE()

	server, err := ui.NewServer(appContainer.Selector, appContainer.LoadErr, hub, ui.Options{
		Props:          appConfig.Chart.LayoutProps(),
		DefaultWidth:   appConfig.Chart.DefaultWidth,
		ResizeDebounce: appConfig.Chart.ResizeDebounce,
		Logger:         appContainer.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	go func() {
		if err := server.Start(":" + appConfig.Server.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("Shutting down")
	server.Close()
	if err := appContainer.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
