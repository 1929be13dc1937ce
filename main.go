package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// openStore connects the store selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config) (nutritionStore, error) {
	if cfg.StoreDriver == "sqlite" {
		return newSQLiteStore(cfg.DBPath)
	}
	return newPgStore(ctx, cfg.DBURL)
}

// newServer wires the gin engine behind the CORS handler.
func newServer(h *Handler, cfg *config) http.Handler {
	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(router)
}

func main() {
	log.SetPrefix("lg/nutrition-tracker-api: ")
	log.SetFlags(0)

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	foods, err := loadFoodTable(cfg.FoodTablePath)
	if err != nil {
		log.Fatalf("Unable to load food table: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer store.Close()
	fmt.Printf("%s store ready!\n", cfg.StoreDriver)

	if cfg.OwnerUsername != "" {
		if err := ensureOwner(ctx, store, cfg.OwnerUsername, cfg.OwnerPassword); err != nil {
			log.Fatalf("Unable to create owner account: %v", err)
		}
	}

	h := &Handler{
		store:         store,
		foods:         foods,
		openAIBaseURL: cfg.OpenAIBaseURL,
		openAIKey:     cfg.OpenAIAPIKey,
	}

	fmt.Printf("Listening on :%s\n", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, newServer(h, cfg)); err != nil {
		log.Fatal(err)
	}
}
