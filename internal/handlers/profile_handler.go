package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/internal/repositories"
)

// ProfileHandler serves the trainer profile card.
type ProfileHandler struct {
	collectionRepository repositories.CollectionRepository
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(collectionRepo repositories.CollectionRepository) *ProfileHandler {
	return &ProfileHandler{collectionRepository: collectionRepo}
}

// RegisterProfileRoutes registers profile-related routes.
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
}

// recentCatchLimit caps how many records the profile card shows.
const recentCatchLimit = 4

// GetProfile returns the authenticated user's trainer card: identity, caught
// count, derived rank, and the most recent catches.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}

	records, err := h.collectionRepository.Load(c.Request().Context(), user.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Collection is first-capture order; the newest catches sit at the end.
	recent := records
	if len(recent) > recentCatchLimit {
		recent = recent[len(recent)-recentCatchLimit:]
	}
	reversed := make([]models.CreatureRecord, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		reversed = append(reversed, recent[i])
	}

	trainerID := user.UID
	if len(trainerID) > 8 {
		trainerID = trainerID[:8]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"uid":        user.UID,
		"email":      user.Email,
		"trainer_id": trainerID,
		"rank":       rankFor(len(records)),
		"stats": echo.Map{
			"caught": len(records),
		},
		"recent": reversed,
	})
}

// rankFor maps a caught count to a trainer rank.
func rankFor(caught int) string {
	switch {
	case caught >= 100:
		return "Pokemon Master"
	case caught >= 50:
		return "Elite Trainer"
	case caught >= 20:
		return "Veteran Trainer"
	case caught >= 5:
		return "Ace Trainer"
	default:
		return "Novice Trainer"
	}
}
