package main

import (
	"log"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet
		log.Println("No .env file found, relying on environment variables")
	}

	if err := SetupCommands().Execute(); err != nil {
		os.Exit(1)
	}
}
