// Package repositories implements the entity stores on top of the key-value
// store: each operation is a full read-decode-mutate-encode-write of one
// document. There is no versioning and no cross-key transaction; two
// overlapping writers to the same key are last-write-wins. That limitation is
// inherited from the single-device design this storage model comes from and
// is kept on purpose.
package repositories

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/pkg/metrics"
)

// caughtKey derives the user-scoped storage slot for a collection. Two users
// never share a slot, and no key exists for an unidentified user.
func caughtKey(userID string) string { return "caught:" + userID }

// CollectionRepository defines the interface for a user's caught-creature
// collection.
type CollectionRepository interface {
	// Load returns the collection in first-capture order. A missing or corrupt
	// payload yields an empty collection, not an error.
	Load(ctx context.Context, userID string) ([]models.CreatureRecord, error)
	// Capture appends record unless its species ID is already present.
	// The boolean reports whether the record was added.
	Capture(ctx context.Context, userID string, record models.CreatureRecord) (bool, error)
	// Update replaces the stored record with the same species ID, if any.
	// Used to backfill type/imageUrl from the species lookup.
	Update(ctx context.Context, userID string, record models.CreatureRecord) error
}

// KVCollectionRepository implements CollectionRepository over a kvstore.Store.
type KVCollectionRepository struct {
	store kvstore.Store
}

// NewKVCollectionRepository creates a new KVCollectionRepository.
func NewKVCollectionRepository(store kvstore.Store) *KVCollectionRepository {
	return &KVCollectionRepository{store: store}
}

// Load retrieves the user's collection from the store.
func (r *KVCollectionRepository) Load(ctx context.Context, userID string) ([]models.CreatureRecord, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	payload, found, err := r.store.Get(ctx, caughtKey(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.CreatureRecord{}, nil
	}

	var records []models.CreatureRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		// Corrupt payload: treat as empty rather than failing the caller.
		log.Printf("collection payload for %s is corrupt, treating as empty: %v", caughtKey(userID), err)
		metrics.DecodeFailuresTotal.Inc()
		return []models.CreatureRecord{}, nil
	}
	return records, nil
}

// Capture records a caught species. At most once per species per user: a
// duplicate ID leaves the stored collection unchanged.
func (r *KVCollectionRepository) Capture(ctx context.Context, userID string, record models.CreatureRecord) (bool, error) {
	if userID == "" {
		return false, ErrNoUser
	}

	records, err := r.Load(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, existing := range records {
		if existing.ID == record.ID {
			return false, nil
		}
	}

	records = append(records, record)
	if err := r.save(ctx, userID, records); err != nil {
		return false, err
	}
	return true, nil
}

// Update rewrites the record matching record.ID. Unknown IDs are a no-op.
func (r *KVCollectionRepository) Update(ctx context.Context, userID string, record models.CreatureRecord) error {
	if userID == "" {
		return ErrNoUser
	}

	records, err := r.Load(ctx, userID)
	if err != nil {
		return err
	}

	changed := false
	for i, existing := range records {
		if existing.ID == record.ID {
			records[i] = record
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, userID, records)
}

func (r *KVCollectionRepository) save(ctx context.Context, userID string, records []models.CreatureRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, caughtKey(userID), string(payload)); err != nil {
		log.Printf("failed to persist collection for %s: %v", caughtKey(userID), err)
		metrics.WriteFailuresTotal.Inc()
		return err
	}
	return nil
}
