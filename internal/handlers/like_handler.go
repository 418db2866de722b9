package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/repositories"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// LikeHandler handles like toggling. The per-user like set and the post's
// like counter are two views of one fact, so the toggle and the counter
// adjustment happen here as one logical operation.
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	feedRepository repositories.FeedRepository
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likeRepo repositories.LikeRepository, feedRepo repositories.FeedRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		feedRepository: feedRepo,
	}
}

// RegisterLikeRoutes registers like-related routes.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/feed/posts/:id/like", h.ToggleLike)
}

// ToggleLike flips the authenticated user's like on a post and adjusts the
// post's counter with the matching sign. The two stores are not
// transactional: when the counter write fails after the toggle persisted,
// the divergence is logged and counted, and the request fails so the client
// can retry (a retry toggles back or lets the counter catch up).
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}
	postID := c.Param("id")

	// Verify the post exists before touching the like set, so a bad ID cannot
	// leave a dangling membership.
	if _, err := h.feedRepository.Get(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	nowLiked, err := h.likeRepository.Toggle(c.Request().Context(), user.UID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.LikeTogglesTotal.Inc()

	delta := -1
	if nowLiked {
		delta = +1
	}
	likes, err := h.feedRepository.AdjustLikes(c.Request().Context(), postID, delta)
	if err != nil {
		log.Printf("like toggled for %s on %s but counter adjust failed: %v", user.UID, postID, err)
		metrics.LikeDivergenceTotal.Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "Like recorded but counter update failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id": postID,
		"liked":   nowLiked,
		"likes":   likes,
	})
}
