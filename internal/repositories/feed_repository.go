package repositories

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// feedKey is the single global feed slot. The version suffix exists so a
// schema change takes a fresh key instead of decoding stale payloads.
const feedKey = "feed:v7"

// DefaultSeedPosts returns the static demo posts shown at the top of every
// fresh feed. They live in memory only: never serialized to storage, never
// deletable. Timestamps are derived from now so they always read as recent.
func DefaultSeedPosts(now time.Time) []models.Post {
	millis := now.UnixMilli()
	return []models.Post{
		{
			ID:           "static-1",
			Username:     "Professor Oak",
			Handle:       "@kanto_research",
			TrainerClass: "Professor",
			Content:      "A shiny Gyarados has been spotted!",
			Timestamp:    millis - time.Hour.Milliseconds(),
			ImageURL:     "https://media.giphy.com/media/ydU6Wf0rCqO52/giphy.gif",
			Likes:        5420,
			Comments:     []string{},
			IsStatic:     true,
			IsGif:        true,
		},
		{
			ID:           "static-2",
			Username:     "Cynthia",
			Handle:       "@sinnoh_champ",
			TrainerClass: "Champion",
			Content:      "Garchomp senses something strange nearby!",
			Timestamp:    millis - 2*time.Hour.Milliseconds(),
			ImageURL:     "https://img.pokemondb.net/artwork/large/garchomp.jpg",
			Likes:        8900,
			Comments:     []string{},
			IsStatic:     true,
		},
	}
}

// FeedRepository defines the interface for the global social feed.
type FeedRepository interface {
	// Load returns seed posts merged with stored posts, newest first.
	Load(ctx context.Context) ([]models.Post, error)
	// Get returns the post with the given ID, seed or stored.
	Get(ctx context.Context, postID string) (*models.Post, error)
	// Append prepends a post and persists the non-static working set.
	Append(ctx context.Context, post models.Post) error
	// Remove hard-deletes a stored post. ErrStaticPost for seeds.
	Remove(ctx context.Context, postID string) error
	// AddComment appends text to the post's comment list. Comments are
	// append-only: there is no edit or delete of individual comments.
	AddComment(ctx context.Context, postID, text string) (*models.Post, error)
	// AdjustLikes applies delta (+1 or -1) to the post's like counter and
	// returns the new count. The caller decides the sign from the user's
	// like-state membership; the two must always move together.
	AdjustLikes(ctx context.Context, postID string, delta int) (int, error)
}

// KVFeedRepository implements FeedRepository over a kvstore.Store. Seed posts
// are held in memory for the process lifetime, so likes and comments on them
// behave like the original per-session state: visible until restart, never
// persisted. The mutex only guards that in-memory seed slice; stored posts
// keep the uncoordinated read-modify-write semantics of the underlying store.
type KVFeedRepository struct {
	store kvstore.Store

	mu    sync.Mutex
	seeds []models.Post
}

// NewKVFeedRepository creates a feed over store with the given seed posts.
// Pass nil for a feed without demo content.
func NewKVFeedRepository(store kvstore.Store, seeds []models.Post) *KVFeedRepository {
	return &KVFeedRepository{store: store, seeds: seeds}
}

// Load merges seeds with stored posts and sorts newest-first. Storage order
// is insertion order; sorting happens here, at load time.
func (r *KVFeedRepository) Load(ctx context.Context) ([]models.Post, error) {
	stored, err := r.loadStored(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	merged := make([]models.Post, 0, len(r.seeds)+len(stored))
	merged = append(merged, r.seeds...)
	r.mu.Unlock()
	merged = append(merged, stored...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged, nil
}

// Get finds a post by ID.
func (r *KVFeedRepository) Get(ctx context.Context, postID string) (*models.Post, error) {
	if seed := r.findSeed(postID); seed != nil {
		return seed, nil
	}

	stored, err := r.loadStored(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].ID == postID {
			return &stored[i], nil
		}
	}
	return nil, ErrPostNotFound
}

// Append adds a post to the feed. Static posts are in-memory fixtures and
// are never written to storage.
func (r *KVFeedRepository) Append(ctx context.Context, post models.Post) error {
	post.Normalize()
	if post.IsStatic {
		return ErrStaticPost
	}

	stored, err := r.loadStored(ctx)
	if err != nil {
		return err
	}
	stored = append([]models.Post{post}, stored...)
	return r.save(ctx, stored)
}

// Remove deletes a stored post by ID.
func (r *KVFeedRepository) Remove(ctx context.Context, postID string) error {
	if r.findSeed(postID) != nil {
		return ErrStaticPost
	}

	stored, err := r.loadStored(ctx)
	if err != nil {
		return err
	}

	kept := stored[:0]
	for _, p := range stored {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(stored) {
		return ErrPostNotFound
	}
	return r.save(ctx, kept)
}

// AddComment appends a comment to a post. Comments on seed posts live only
// in process memory, like everything else about seeds.
func (r *KVFeedRepository) AddComment(ctx context.Context, postID, text string) (*models.Post, error) {
	r.mu.Lock()
	for i := range r.seeds {
		if r.seeds[i].ID == postID {
			r.seeds[i].Comments = append(r.seeds[i].Comments, text)
			updated := r.seeds[i]
			r.mu.Unlock()
			return &updated, nil
		}
	}
	r.mu.Unlock()

	stored, err := r.loadStored(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].ID == postID {
			stored[i].Comments = append(stored[i].Comments, text)
			if err := r.save(ctx, stored); err != nil {
				return nil, err
			}
			return &stored[i], nil
		}
	}
	return nil, ErrPostNotFound
}

// AdjustLikes moves a post's like counter by delta, clamping at zero.
func (r *KVFeedRepository) AdjustLikes(ctx context.Context, postID string, delta int) (int, error) {
	r.mu.Lock()
	for i := range r.seeds {
		if r.seeds[i].ID == postID {
			r.seeds[i].Likes = clampLikes(postID, r.seeds[i].Likes+delta)
			likes := r.seeds[i].Likes
			r.mu.Unlock()
			return likes, nil
		}
	}
	r.mu.Unlock()

	stored, err := r.loadStored(ctx)
	if err != nil {
		return 0, err
	}
	for i := range stored {
		if stored[i].ID == postID {
			stored[i].Likes = clampLikes(postID, stored[i].Likes+delta)
			if err := r.save(ctx, stored); err != nil {
				return 0, err
			}
			return stored[i].Likes, nil
		}
	}
	return 0, ErrPostNotFound
}

func clampLikes(postID string, likes int) int {
	if likes < 0 {
		// Reachable only if toggle tracking and the counter diverged.
		log.Printf("like counter for post %s went negative, clamping to 0", postID)
		return 0
	}
	return likes
}

func (r *KVFeedRepository) findSeed(postID string) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.seeds {
		if r.seeds[i].ID == postID {
			seed := r.seeds[i]
			return &seed
		}
	}
	return nil
}

// loadStored reads and decodes the persisted (non-static) posts.
func (r *KVFeedRepository) loadStored(ctx context.Context) ([]models.Post, error) {
	payload, found, err := r.store.Get(ctx, feedKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(payload), &posts); err != nil {
		log.Printf("feed payload is corrupt, treating as empty: %v", err)
		metrics.DecodeFailuresTotal.Inc()
		return []models.Post{}, nil
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (r *KVFeedRepository) save(ctx context.Context, posts []models.Post) error {
	// Static posts never reach storage, whatever the caller handed us.
	persistable := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsStatic {
			persistable = append(persistable, p)
		}
	}

	payload, err := json.Marshal(persistable)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, feedKey, string(payload)); err != nil {
		log.Printf("failed to persist feed: %v", err)
		metrics.WriteFailuresTotal.Inc()
		return err
	}
	return nil
}
