package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"CryptoDash/internal/di"
	"CryptoDash/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "optional dotenv file with secrets")
	flag.Parse()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv load failed: %v", err)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("env=%s port=%d cache=%s kafka=%t clickhouse=%t",
		cfg.Environment, cfg.Server.Port, cfg.Cache.Backend, cfg.Kafka.Enabled, cfg.ClickHouse.Enabled)

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
