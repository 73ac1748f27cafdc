package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/sweet-friend/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	// Load .env if present
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	// Load and validate
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Port: %s\n", cfg.Port)
	fmt.Printf("  - Base URL: %s\n", cfg.BaseURL)
	fmt.Printf("  - Session Secret: %s\n", maskToken(cfg.SessionSecret))
	fmt.Printf("  - AI Provider: %s\n", cfg.AIProvider)
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.OpenAIAPIKey))
	fmt.Printf("  - DB Driver: %s\n", cfg.DB.Driver)
	if cfg.DB.Driver == "sqlite" {
		fmt.Printf("  - SQLite Path: %s\n", cfg.DB.SQLitePath)
	} else {
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Password: %s\n", maskToken(cfg.DB.Password))
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
	} else {
		fmt.Printf("  - Redis: <disabled, chat state kept in memory>\n")
	}
	fmt.Printf("  - Display Timezone: %s\n", cfg.Location())
	fmt.Printf("  - Upload Dir: %s (max %d bytes)\n", cfg.UploadDir, cfg.MaxUploadSize)
	if cfg.Dexcom.Enabled() {
		fmt.Printf("  - Dexcom Client ID: %s\n", maskToken(cfg.Dexcom.ClientID))
		fmt.Printf("  - Dexcom Client Secret: %s\n", maskToken(cfg.Dexcom.ClientSecret))
		fmt.Printf("  - Dexcom Redirect URL: %s\n", cfg.Dexcom.RedirectURL)
		fmt.Printf("  - Dexcom API: %s\n", cfg.Dexcom.BaseURL)
	} else {
		fmt.Printf("  - Dexcom: <disabled>\n")
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
