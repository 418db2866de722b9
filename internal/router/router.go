package router

import (
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pokeexplorer/backend/internal/handlers"
	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/internal/middleware"
	"github.com/pokeexplorer/backend/internal/pokeapi"
	"github.com/pokeexplorer/backend/internal/repositories"
	"github.com/pokeexplorer/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// A nil firebaseAuthClient switches identity to the debug-header middleware
// (development only).
func SetupRoutes(e *echo.Echo, store kvstore.Store, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// Always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", handlers.Metrics)

	// --- Initialize repositories over the key-value store ---
	collectionRepo := repositories.NewKVCollectionRepository(store)
	feedRepo := repositories.NewKVFeedRepository(store, repositories.DefaultSeedPosts(time.Now()))
	likeRepo := repositories.NewKVLikeRepository(store)
	species := pokeapi.NewClient(cfg.PokeAPIBaseURL)

	requireAuth, optionalAuth := authMiddlewares(firebaseAuthClient)

	api := e.Group("/api/v1")

	// Feed reads are open to anonymous users; like flags appear only with an
	// identity.
	feedHandler := handlers.NewFeedHandler(feedRepo, likeRepo)
	api.GET("/feed", feedHandler.GetFeed, optionalAuth)

	// Everything below needs an identified user.
	protected := api.Group("", requireAuth)

	feedHandler.RegisterFeedRoutes(protected)
	log.Println("Feed routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, feedRepo)
	likeHandler.RegisterLikeRoutes(protected)
	log.Println("Like routes configured.")

	captureHandler := handlers.NewCaptureHandler(collectionRepo, feedRepo, species)
	captureHandler.RegisterCaptureRoutes(protected)
	log.Println("Capture routes configured.")

	profileHandler := handlers.NewProfileHandler(collectionRepo)
	profileHandler.RegisterProfileRoutes(protected)
	log.Println("Profile routes configured.")

	log.Println("All routes configured.")
}

func authMiddlewares(firebaseAuthClient *auth.Client) (required, optional echo.MiddlewareFunc) {
	if firebaseAuthClient != nil {
		return middleware.FirebaseAuthMiddleware(firebaseAuthClient),
			middleware.OptionalFirebaseAuthMiddleware(firebaseAuthClient)
	}
	log.Println("WARNING: no Firebase client, using debug-header auth. Do not run this in production.")
	return middleware.DevAuthMiddleware(), middleware.OptionalDevAuthMiddleware()
}
