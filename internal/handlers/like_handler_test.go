package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/internal/repositories"
)

func toggleLike(t *testing.T, h *LikeHandler, uid, postID string) (liked bool, likes int) {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/feed/posts/"+postID+"/like", "")
	c.SetParamNames("id")
	c.SetParamValues(postID)
	c.Set("firebaseUID", uid)

	if err := h.ToggleLike(c); err != nil {
		t.Fatalf("ToggleLike returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Liked, resp.Likes
}

func TestToggleLikeAdjustsCounterBothWays(t *testing.T) {
	store := kvstore.NewMemoryStore()
	feedRepo := repositories.NewKVFeedRepository(store, nil)
	likeRepo := repositories.NewKVLikeRepository(store)
	h := NewLikeHandler(likeRepo, feedRepo)

	if err := feedRepo.Append(context.Background(), models.Post{ID: "p1", Likes: 3, Comments: []string{}}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	liked, likes := toggleLike(t, h, "user-a", "p1")
	if !liked || likes != 4 {
		t.Fatalf("first toggle: liked=%v likes=%d, want true/4", liked, likes)
	}

	liked, likes = toggleLike(t, h, "user-a", "p1")
	if liked || likes != 3 {
		t.Fatalf("second toggle: liked=%v likes=%d, want false/3", liked, likes)
	}
}

func TestToggleLikeIndependentUsers(t *testing.T) {
	store := kvstore.NewMemoryStore()
	feedRepo := repositories.NewKVFeedRepository(store, nil)
	likeRepo := repositories.NewKVLikeRepository(store)
	h := NewLikeHandler(likeRepo, feedRepo)

	if err := feedRepo.Append(context.Background(), models.Post{ID: "p1", Comments: []string{}}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if _, likes := toggleLike(t, h, "user-a", "p1"); likes != 1 {
		t.Fatalf("expected 1 like, got %d", likes)
	}
	if _, likes := toggleLike(t, h, "user-b", "p1"); likes != 2 {
		t.Fatalf("expected 2 likes, got %d", likes)
	}

	likedA, err := likeRepo.Liked(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("Liked returned error: %v", err)
	}
	if !likedA["p1"] {
		t.Fatal("user-a's like lost after user-b toggled")
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewLikeHandler(repositories.NewKVLikeRepository(store), repositories.NewKVFeedRepository(store, nil))

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/feed/posts/nope/like", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	c.Set("firebaseUID", "user-a")

	he := asHTTPError(t, h.ToggleLike(c))
	if he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", he.Code)
	}
}

func TestToggleLikeRequiresIdentifiedUser(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewLikeHandler(repositories.NewKVLikeRepository(store), repositories.NewKVFeedRepository(store, nil))

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/feed/posts/p1/like", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	he := asHTTPError(t, h.ToggleLike(c))
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}
