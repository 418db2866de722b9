package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/internal/pokeapi"
	"github.com/pokeexplorer/backend/internal/repositories"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// SpeciesLookup resolves a species ID to its primary type name.
type SpeciesLookup interface {
	PrimaryType(ctx context.Context, id int) (string, error)
}

// CaptureHandler handles HTTP requests for the capture flow: recording a
// caught creature and announcing it on the feed.
type CaptureHandler struct {
	collectionRepository repositories.CollectionRepository
	feedRepository       repositories.FeedRepository
	species              SpeciesLookup
}

// NewCaptureHandler creates a new CaptureHandler.
func NewCaptureHandler(collectionRepo repositories.CollectionRepository, feedRepo repositories.FeedRepository, species SpeciesLookup) *CaptureHandler {
	return &CaptureHandler{
		collectionRepository: collectionRepo,
		feedRepository:       feedRepo,
		species:              species,
	}
}

// RegisterCaptureRoutes registers capture-related routes.
func (h *CaptureHandler) RegisterCaptureRoutes(g *echo.Group) {
	g.POST("/captures", h.Capture)
	g.GET("/captures", h.GetCollection)
}

// Capture records a caught creature for the authenticated user and appends a
// capture announcement to the global feed. The two writes are sequential and
// not transactional: a failed announcement is logged, never rolled back.
func (h *CaptureHandler) Capture(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}

	var req models.CaptureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The camera shot stays on the device; only the path is of interest here.
	if req.PhotoPath != "" {
		log.Printf("capture photo saved at %s", req.PhotoPath)
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = pokeapi.SpriteURL(req.ID)
	}
	record := models.CreatureRecord{
		ID:       req.ID,
		Name:     req.Name,
		ImageURL: imageURL,
	}

	added, err := h.collectionRepository.Capture(c.Request().Context(), user.UID, record)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !added {
		// Already caught: at most one record per species per user.
		return c.JSON(http.StatusOK, echo.Map{"record": record, "added": false})
	}
	metrics.CapturesTotal.Inc()

	now := time.Now().UnixMilli()
	announcement := models.Post{
		ID:        fmt.Sprintf("caught-%d-%d", req.ID, now),
		Username:  user.DisplayName(),
		Handle:    user.Handle(),
		Content:   fmt.Sprintf("Caught %s!", req.Name),
		Timestamp: now,
		ImageURL:  imageURL,
		PokemonID: req.ID,
		Comments:  []string{},
	}
	if err := h.feedRepository.Append(c.Request().Context(), announcement); err != nil {
		// The collection write already succeeded; surface the gap in the logs
		// and keep the capture.
		log.Printf("capture recorded but feed announcement failed for species %d: %v", req.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"record": record, "added": true, "post": announcement})
}

// GetCollection returns the authenticated user's collection in first-capture
// order, backfilling missing type/artwork fields from the species lookup.
// Lookup failures degrade to a placeholder type and never fail the request.
func (h *CaptureHandler) GetCollection(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}

	records, err := h.collectionRepository.Load(c.Request().Context(), user.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for i := range records {
		if records[i].Type != "" && records[i].ImageURL != "" {
			continue
		}
		stored := records[i]
		if stored.ImageURL == "" {
			stored.ImageURL = pokeapi.SpriteURL(stored.ID)
		}
		display := stored
		if stored.Type == "" {
			typeName, err := h.species.PrimaryType(c.Request().Context(), stored.ID)
			if err != nil {
				// Placeholder for rendering only; it is not persisted, so the
				// next load retries the lookup.
				log.Printf("species lookup failed for %d: %v", stored.ID, err)
				display.Type = pokeapi.PlaceholderType
			} else {
				stored.Type = typeName
				display.Type = typeName
			}
		}
		if stored != records[i] {
			if err := h.collectionRepository.Update(c.Request().Context(), user.UID, stored); err != nil {
				log.Printf("failed to persist backfill for species %d: %v", stored.ID, err)
			}
		}
		records[i] = display
	}

	return c.JSON(http.StatusOK, echo.Map{"count": len(records), "records": records})
}
