package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/router"
	"github.com/pokeexplorer/backend/pkg/config"
	"github.com/pokeexplorer/backend/pkg/firebase"
	"github.com/pokeexplorer/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the key-value store backend
	store, closeStore, err := config.InitStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize key-value store: %v", err)
	}
	defer closeStore()

	// Initialize Firebase when credentials are configured; without them the
	// router falls back to debug-header identity (development only).
	var authClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient = firebaseApp.AuthClient
	} else if cfg.Env != "development" {
		log.Fatalf("FIREBASE_CREDENTIALS_PATH must be set when ENV=%s", cfg.Env)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, store, authClient, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
