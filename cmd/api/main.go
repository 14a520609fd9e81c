package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ncastellanos/roadmapr-backend/internal/app"
)

func main() {
	// Missing .env is fine in containerized deploys; env comes from the runtime.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	application.Log.Info("Starting HTTP server", "port", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Fatal("Server stopped", "error", err)
	}
}
