package repositories

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// likesKey derives the user-scoped storage slot for a like set.
func likesKey(userID string) string { return "likes:" + userID }

// LikeRepository tracks which posts a user has liked. The set and the feed's
// like counters are two views of one fact: a toggle here must be paired with
// an AdjustLikes call of matching sign on the feed, in the same logical
// operation. The two stores are not transactional; callers log a divergence
// when the second write fails.
type LikeRepository interface {
	// Toggle flips membership of postID in the user's like set, persists it,
	// and reports whether the post is now liked.
	Toggle(ctx context.Context, userID, postID string) (bool, error)
	// Liked returns the user's like set. An empty userID yields an empty set:
	// with no identified user nothing is ever written.
	Liked(ctx context.Context, userID string) (map[string]bool, error)
}

// KVLikeRepository implements LikeRepository over a kvstore.Store, storing
// the set as a JSON array of post IDs.
type KVLikeRepository struct {
	store kvstore.Store
}

// NewKVLikeRepository creates a new KVLikeRepository.
func NewKVLikeRepository(store kvstore.Store) *KVLikeRepository {
	return &KVLikeRepository{store: store}
}

// Toggle flips the like-state of a post for a user.
func (r *KVLikeRepository) Toggle(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, ErrNoUser
	}

	ids, err := r.loadIDs(ctx, userID)
	if err != nil {
		return false, err
	}

	nowLiked := true
	kept := ids[:0]
	for _, id := range ids {
		if id == postID {
			nowLiked = false
			continue
		}
		kept = append(kept, id)
	}
	if nowLiked {
		kept = append(kept, postID)
	}

	payload, err := json.Marshal(kept)
	if err != nil {
		return false, err
	}
	if err := r.store.Set(ctx, likesKey(userID), string(payload)); err != nil {
		log.Printf("failed to persist like set for %s: %v", likesKey(userID), err)
		metrics.WriteFailuresTotal.Inc()
		return false, err
	}
	return nowLiked, nil
}

// Liked returns the set of post IDs the user has liked.
func (r *KVLikeRepository) Liked(ctx context.Context, userID string) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}

	ids, err := r.loadIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *KVLikeRepository) loadIDs(ctx context.Context, userID string) ([]string, error) {
	payload, found, err := r.store.Get(ctx, likesKey(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(payload), &ids); err != nil {
		log.Printf("like set for %s is corrupt, treating as empty: %v", likesKey(userID), err)
		metrics.DecodeFailuresTotal.Inc()
		return []string{}, nil
	}
	return ids, nil
}
