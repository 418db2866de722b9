package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pokeexplorer/backend/internal/kvstore"
	"github.com/pokeexplorer/backend/internal/models"
	"github.com/pokeexplorer/backend/internal/repositories"
	"github.com/pokeexplorer/backend/validators"
)

type fakeSpecies struct {
	typeName string
	err      error
}

func (f fakeSpecies) PrimaryType(_ context.Context, _ int) (string, error) {
	return f.typeName, f.err
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asHTTPError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he
}

func TestCaptureRecordsAndAnnounces(t *testing.T) {
	store := kvstore.NewMemoryStore()
	collectionRepo := repositories.NewKVCollectionRepository(store)
	feedRepo := repositories.NewKVFeedRepository(store, nil)
	h := NewCaptureHandler(collectionRepo, feedRepo, fakeSpecies{typeName: "electric"})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/captures", `{"id":25,"name":"Pikachu","photoPath":"/tmp/shot.jpg"}`)
	c.Set("firebaseUID", "user-a")
	c.Set("firebaseEmail", "ash@example.com")

	if err := h.Capture(c); err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	records, err := collectionRepo.Load(context.Background(), "user-a")
	if err != nil || len(records) != 1 || records[0].ID != 25 {
		t.Fatalf("capture not recorded: %v (err %v)", records, err)
	}

	posts, err := feedRepo.Load(context.Background())
	if err != nil {
		t.Fatalf("feed Load returned error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(posts))
	}
	if posts[0].PokemonID != 25 || posts[0].Content != "Caught Pikachu!" {
		t.Fatalf("unexpected announcement: %+v", posts[0])
	}
	if posts[0].Username != "ash@example.com" {
		t.Fatalf("announcement should carry the user's display name, got %q", posts[0].Username)
	}
}

func TestDuplicateCaptureDoesNotAnnounceAgain(t *testing.T) {
	store := kvstore.NewMemoryStore()
	collectionRepo := repositories.NewKVCollectionRepository(store)
	feedRepo := repositories.NewKVFeedRepository(store, nil)
	h := NewCaptureHandler(collectionRepo, feedRepo, fakeSpecies{typeName: "electric"})

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "/api/v1/captures", `{"id":25,"name":"Pikachu"}`)
		c.Set("firebaseUID", "user-a")
		if err := h.Capture(c); err != nil {
			t.Fatalf("Capture %d returned error: %v", i, err)
		}
		want := http.StatusCreated
		if i == 1 {
			want = http.StatusOK
		}
		if rec.Code != want {
			t.Fatalf("Capture %d: expected %d, got %d", i, want, rec.Code)
		}
	}

	records, _ := collectionRepo.Load(context.Background(), "user-a")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	posts, _ := feedRepo.Load(context.Background())
	if len(posts) != 1 {
		t.Fatalf("duplicate capture must not announce again, got %d posts", len(posts))
	}
}

func TestCaptureRequiresIdentifiedUser(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewCaptureHandler(
		repositories.NewKVCollectionRepository(store),
		repositories.NewKVFeedRepository(store, nil),
		fakeSpecies{typeName: "electric"},
	)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/captures", `{"id":25,"name":"Pikachu"}`)
	he := asHTTPError(t, h.Capture(c))
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestGetCollectionBackfillsAndPersistsType(t *testing.T) {
	store := kvstore.NewMemoryStore()
	collectionRepo := repositories.NewKVCollectionRepository(store)
	h := NewCaptureHandler(collectionRepo, repositories.NewKVFeedRepository(store, nil), fakeSpecies{typeName: "electric"})

	if _, err := collectionRepo.Capture(context.Background(), "user-a", models.CreatureRecord{ID: 25, Name: "Pikachu"}); err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/captures", "")
	c.Set("firebaseUID", "user-a")
	if err := h.GetCollection(c); err != nil {
		t.Fatalf("GetCollection returned error: %v", err)
	}

	var resp struct {
		Count   int                     `json:"count"`
		Records []models.CreatureRecord `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Records[0].Type != "electric" {
		t.Fatalf("expected backfilled type, got %+v", resp)
	}

	// The successful lookup is persisted for the next load.
	records, _ := collectionRepo.Load(context.Background(), "user-a")
	if records[0].Type != "electric" {
		t.Fatalf("backfill not persisted: %+v", records[0])
	}
}

func TestGetCollectionFallsBackToPlaceholder(t *testing.T) {
	store := kvstore.NewMemoryStore()
	collectionRepo := repositories.NewKVCollectionRepository(store)
	h := NewCaptureHandler(collectionRepo, repositories.NewKVFeedRepository(store, nil), fakeSpecies{err: errors.New("lookup down")})

	if _, err := collectionRepo.Capture(context.Background(), "user-a", models.CreatureRecord{ID: 25, Name: "Pikachu"}); err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/captures", "")
	c.Set("firebaseUID", "user-a")
	if err := h.GetCollection(c); err != nil {
		t.Fatalf("GetCollection must not fail on lookup errors: %v", err)
	}

	var resp struct {
		Records []models.CreatureRecord `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Records[0].Type != "unknown" {
		t.Fatalf("expected placeholder type, got %q", resp.Records[0].Type)
	}

	// Placeholders are never persisted; the next load retries the lookup.
	records, _ := collectionRepo.Load(context.Background(), "user-a")
	if records[0].Type != "" {
		t.Fatalf("placeholder must not be persisted: %+v", records[0])
	}
}
