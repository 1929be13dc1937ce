package main

import (
	"fmt"
	"os"
	"strings"
)

// config holds the process configuration, read from the environment after
// .env has been loaded.
type config struct {
	Port          string
	StoreDriver   string // "postgres" or "sqlite"
	DBURL         string
	DBPath        string
	CORSOrigins   []string
	FoodTablePath string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OwnerUsername string
	OwnerPassword string
}

// loadConfig reads and validates the configuration from environment variables.
func loadConfig() (*config, error) {
	cfg := &config{
		Port:          os.Getenv("PORT"),
		StoreDriver:   strings.ToLower(os.Getenv("STORE_DRIVER")),
		DBURL:         os.Getenv("DB_URL"),
		DBPath:        os.Getenv("DB_PATH"),
		FoodTablePath: os.Getenv("FOOD_TABLE_PATH"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OwnerUsername: os.Getenv("OWNER_USERNAME"),
		OwnerPassword: os.Getenv("OWNER_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "postgres"
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = "https://api.openai.com"
	}

	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL environment variable not set")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			cfg.DBPath = "data/nutrition.db"
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be postgres or sqlite, got %q", cfg.StoreDriver)
	}

	if (cfg.OwnerUsername == "") != (cfg.OwnerPassword == "") {
		return nil, fmt.Errorf("OWNER_USERNAME and OWNER_PASSWORD must be set together")
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}

	return cfg, nil
}
