package main

import (
	"context"
	"log"
	"net/http"

	"barstack/internal/config"
	"barstack/internal/container"
	"barstack/ui"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := c.LoadDatasets(context.Background()); err != nil {
		log.Fatalf("Chart failed to load: %v", err)
	}

	app := ui.NewApp(c.Registry, ui.Options{
		Props:        cfg.Chart.LayoutProps(),
		DefaultWidth: cfg.Chart.DefaultWidth,
		Logger:       c.Logger,
	})

	log.Printf("Serving embeddable charts on http://localhost:%s", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, app))
}
