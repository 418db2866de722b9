package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrimaryType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/pokemon/25" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"types":[{"slot":1,"type":{"name":"electric","url":"https://pokeapi.co/api/v2/type/13/"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	name, err := client.PrimaryType(context.Background(), 25)
	if err != nil {
		t.Fatalf("PrimaryType returned error: %v", err)
	}
	if name != "electric" {
		t.Fatalf("PrimaryType = %q, want %q", name, "electric")
	}
}

func TestPrimaryTypeErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not found", http.StatusNotFound, "Not Found"},
		{"no types", http.StatusOK, `{"types":[]}`},
		{"bad json", http.StatusOK, `{"types":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			if _, err := NewClient(server.URL).PrimaryType(context.Background(), 25); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSpriteURL(t *testing.T) {
	want := "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/25.png"
	if got := SpriteURL(25); got != want {
		t.Fatalf("SpriteURL(25) = %q, want %q", got, want)
	}
}
