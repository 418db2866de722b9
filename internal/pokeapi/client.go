// Package pokeapi is a thin client for the public species API. It exists only
// to backfill missing type/artwork fields on collection records; lookups are
// best-effort and callers fall back to PlaceholderType on any failure.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public PokeAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co"

	// PlaceholderType is the value rendered when a lookup fails.
	PlaceholderType = "unknown"
)

// Client calls the species API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type pokemonResponse struct {
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
}

// PrimaryType returns the first listed type name for a species ID.
func (c *Client) PrimaryType(ctx context.Context, id int) (string, error) {
	url := fmt.Sprintf("%s/api/v2/pokemon/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("species lookup for %d returned status %d", id, resp.StatusCode)
	}

	var body pokemonResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode species %d: %w", id, err)
	}
	if len(body.Types) == 0 {
		return "", fmt.Errorf("species %d has no types", id)
	}
	return body.Types[0].Type.Name, nil
}

// SpriteURL returns the official-artwork image URL for a species ID.
func SpriteURL(id int) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png", id)
}
