package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/internal/repositories"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// FeedHandler handles feed-related HTTP requests.
type FeedHandler struct {
	feedRepository repositories.FeedRepository
	likeRepository repositories.LikeRepository
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedRepo repositories.FeedRepository, likeRepo repositories.LikeRepository) *FeedHandler {
	return &FeedHandler{
		feedRepository: feedRepo,
		likeRepository: likeRepo,
	}
}

// RegisterFeedRoutes registers the feed's write routes on an authenticated
// group. GET /feed is registered separately by the router with optional auth.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.POST("/feed/posts", h.CreatePost)
	g.DELETE("/feed/posts/:id", h.DeletePost)
	g.POST("/feed/posts/:id/comments", h.AddComment)
}

// EnrichedPost is a post with the current user's like flag.
type EnrichedPost struct {
	models.Post
	IsLiked bool `json:"is_liked"`
}

// GetFeed returns the merged feed, newest first. When the request carries an
// identity the posts are flagged with that user's like state.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.feedRepository.Load(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked := map[string]bool{}
	if user, ok := currentUser(c); ok {
		liked, err = h.likeRepository.Liked(c.Request().Context(), user.UID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		enriched[i] = EnrichedPost{Post: p, IsLiked: liked[p.ID]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"posts": enriched,
		"count": len(enriched),
	})
}

// CreatePost composes a new feed post for the authenticated user.
func (h *FeedHandler) CreatePost(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post needs text or an image")
	}

	now := time.Now().UnixMilli()
	post := models.Post{
		ID:           strconv.FormatInt(now, 10),
		Username:     user.DisplayName(),
		Handle:       user.Handle(),
		TrainerClass: "Trainer",
		Content:      content,
		Timestamp:    now,
		ImageURL:     req.ImageURL,
		Comments:     []string{},
	}

	if err := h.feedRepository.Append(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.FeedPostsTotal.Inc()

	return c.JSON(http.StatusCreated, post)
}

// DeletePost hard-deletes a post. Static seed posts are never deletable.
func (h *FeedHandler) DeletePost(c echo.Context) error {
	if _, ok := currentUser(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}
	postID := c.Param("id")

	err := h.feedRepository.Remove(c.Request().Context(), postID)
	if errors.Is(err, repositories.ErrStaticPost) {
		return echo.NewHTTPError(http.StatusForbidden, "Static posts cannot be deleted")
	}
	if errors.Is(err, repositories.ErrPostNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// AddComment appends a comment to a post. Blank and whitespace-only comments
// are rejected here, before the store is touched.
func (h *FeedHandler) AddComment(c echo.Context) error {
	if _, ok := currentUser(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No identified user")
	}
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment cannot be blank")
	}

	post, err := h.feedRepository.AddComment(c.Request().Context(), postID, text)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}
